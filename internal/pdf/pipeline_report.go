package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"lapublica/internal/pipeline"
	"lapublica/internal/repositories"

	"github.com/jung-kurt/gofpdf"
)

// Generator renders pipeline reports to disk.
type Generator interface {
	GeneratePipelineSummary(data SummaryData) (string, error)
}

type ReportGenerator struct {
	RootDir  string // storage root, e.g. "./files"
	FontPath string // TTF with accented glyphs, e.g. "assets/fonts/DejaVuSans.ttf"
	fontName string
}

type SummaryData struct {
	Rows        []repositories.StageCount
	GeneratedAt time.Time
	Filename    string // without paths; generated when empty
}

func NewReportGenerator(rootDir, fontPath string) *ReportGenerator {
	return &ReportGenerator{
		RootDir:  filepath.Clean(rootDir),
		FontPath: fontPath,
		fontName: "DejaVu",
	}
}

func (g *ReportGenerator) GeneratePipelineSummary(data SummaryData) (string, error) {
	filename := data.Filename
	if filename == "" {
		filename = fmt.Sprintf("pipeline_%s.pdf", data.GeneratedAt.Format("20060102_150405"))
	}
	absPath, err := g.ensureTarget(filename)
	if err != nil {
		return "", err
	}

	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetTitle("Informe del pipeline", false)
	doc.SetAuthor("La Pública", false)
	doc.SetMargins(20, 20, 20)
	doc.SetAutoPageBreak(true, 20)

	g.addUTF8Font(doc)
	doc.AddPage()

	doc.SetFont(g.fontName, "B", 18)
	doc.CellFormat(0, 10, "INFORME DEL PIPELINE", "", 1, "C", false, 0, "")

	doc.SetFont(g.fontName, "", 11)
	doc.CellFormat(0, 7, data.GeneratedAt.Format("02.01.2006 15:04"), "", 1, "C", false, 0, "")
	doc.Ln(4)

	// header row
	doc.SetFont(g.fontName, "B", 11)
	doc.CellFormat(70, 8, "Etapa", "1", 0, "L", false, 0, "")
	doc.CellFormat(40, 8, "Leads", "1", 0, "R", false, 0, "")
	doc.CellFormat(60, 8, "Ingressos estimats", "1", 1, "R", false, 0, "")

	byStage := make(map[pipeline.Stage]repositories.StageCount, len(data.Rows))
	for _, row := range data.Rows {
		byStage[row.Stage] = row
	}

	doc.SetFont(g.fontName, "", 11)
	var totalLeads int
	var totalRevenue float64
	for _, st := range pipeline.AllStages() {
		info, _ := pipeline.Info(st)
		row := byStage[st]
		doc.CellFormat(70, 8, info.Label, "1", 0, "L", false, 0, "")
		doc.CellFormat(40, 8, fmt.Sprintf("%d", row.Count), "1", 0, "R", false, 0, "")
		doc.CellFormat(60, 8, fmt.Sprintf("%.2f €", row.Revenue), "1", 1, "R", false, 0, "")
		totalLeads += row.Count
		totalRevenue += row.Revenue
	}

	doc.SetFont(g.fontName, "B", 11)
	doc.CellFormat(70, 8, "Total", "1", 0, "L", false, 0, "")
	doc.CellFormat(40, 8, fmt.Sprintf("%d", totalLeads), "1", 0, "R", false, 0, "")
	doc.CellFormat(60, 8, fmt.Sprintf("%.2f €", totalRevenue), "1", 1, "R", false, 0, "")

	if err := doc.OutputFileAndClose(absPath); err != nil {
		return "", err
	}
	return absPath, nil
}

func (g *ReportGenerator) ensureTarget(filename string) (string, error) {
	dir := filepath.Join(g.RootDir, "reports")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, filepath.Base(filename)), nil
}

func (g *ReportGenerator) addUTF8Font(doc *gofpdf.Fpdf) {
	if g.FontPath == "" {
		g.fontName = "Helvetica"
		return
	}
	if _, err := os.Stat(g.FontPath); err != nil {
		g.fontName = "Helvetica"
		return
	}
	doc.AddUTF8Font(g.fontName, "", g.FontPath)
	doc.AddUTF8Font(g.fontName, "B", g.FontPath)
}
