package main

import "lapublica/internal/app"

func main() {
	app.Run()
}
