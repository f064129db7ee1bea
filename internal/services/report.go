package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/jviitor13/rodocheck/internal/models"
)

// ReportService renders checklist PDF reports.
type ReportService struct{}

func NewReportService() *ReportService {
	return &ReportService{}
}

// ReportContent is the fully assembled report before any drawing happens.
// Building it separately keeps the layout deterministic and testable.
type ReportContent struct {
	Title         string
	ChecklistInfo [][2]string
	VehicleInfo   [][2]string
	ItemHeader    [3]string
	ItemRows      [][3]string
	ImageLines    []string
	Signatures    []string
	Observations  string
}

var itemStatusLabels = map[string]string{
	"approved": "Aprovado",
	"rejected": "Rejeitado",
	"pending":  "Pendente",
}

var finalStatusLabels = map[string]string{
	"approved": "Aprovado",
	"rejected": "Rejeitado",
	"pending":  "Pendente",
}

var vehicleTypeLabels = map[string]string{
	"truck":   "Caminhão",
	"trailer": "Carreta",
	"bus":     "Ônibus",
	"van":     "Van",
}

// BuildContent assembles every section of the checklist report in its fixed
// order. Identical input always yields identical content.
func (s *ReportService) BuildContent(checklist *models.CompletedChecklist, vehicle *models.Vehicle, creator *models.User) *ReportContent {
	content := &ReportContent{
		Title:      "RELATÓRIO DE CHECKLIST",
		ItemHeader: [3]string{"Item", "Status", "Observações"},
	}

	content.ChecklistInfo = [][2]string{
		{"ID do Checklist:", checklist.ID},
		{"Data de Criação:", checklist.CreatedAt.Format("02/01/2006 15:04")},
		{"Criado por:", creator.FullName()},
		{"Status:", labelOr(finalStatusLabels, checklist.FinalStatus)},
	}
	if checklist.Template != nil {
		content.ChecklistInfo = append(content.ChecklistInfo, [2]string{"Template:", checklist.Template.Name})
	}

	vehicleColor := vehicle.Color
	if vehicleColor == "" {
		vehicleColor = "N/A"
	}
	content.VehicleInfo = [][2]string{
		{"Placa:", vehicle.Plate},
		{"Modelo:", vehicle.Model},
		{"Marca:", vehicle.Brand},
		{"Ano:", fmt.Sprintf("%d", vehicle.Year)},
		{"Tipo:", labelOr(vehicleTypeLabels, vehicle.VehicleType)},
		{"Cor:", vehicleColor},
	}

	for i, question := range decodeQuestions(checklist.Questions) {
		observations := question.Observations
		if observations == "" {
			observations = "N/A"
		}
		content.ItemRows = append(content.ItemRows, [3]string{
			fmt.Sprintf("%d. %s", i+1, question.Text),
			labelOr(itemStatusLabels, question.Status),
			observations,
		})
	}

	content.ImageLines = describeSlots(checklist.VehicleImages, "Imagem anexada")
	content.Signatures = describeSlots(checklist.Signatures, "Assinatura registrada")
	content.Observations = checklist.GeneralObservations
	return content
}

// Render draws the assembled content to PDF bytes.
func (s *ReportService) Render(checklist *models.CompletedChecklist, vehicle *models.Vehicle, creator *models.User) ([]byte, error) {
	content := s.BuildContent(checklist, vehicle, creator)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	translate := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 12, translate(content.Title), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	s.drawInfoTable(pdf, translate, "INFORMAÇÕES DO CHECKLIST", content.ChecklistInfo)
	s.drawInfoTable(pdf, translate, "INFORMAÇÕES DO VEÍCULO", content.VehicleInfo)
	s.drawItemTable(pdf, translate, content)
	s.drawLineSection(pdf, translate, "IMAGENS DO VEÍCULO", content.ImageLines, "Nenhuma imagem registrada.")
	s.drawLineSection(pdf, translate, "ASSINATURAS", content.Signatures, "Nenhuma assinatura registrada.")

	if content.Observations != "" {
		s.drawSectionHeader(pdf, translate, "OBSERVAÇÕES GERAIS")
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 6, translate(content.Observations), "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render checklist pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *ReportService) drawSectionHeader(pdf *fpdf.Fpdf, translate func(string) string, title string) {
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 9, translate(title), "", 1, "L", false, 0, "")
	pdf.Ln(1)
}

func (s *ReportService) drawInfoTable(pdf *fpdf.Fpdf, translate func(string) string, title string, rows [][2]string) {
	s.drawSectionHeader(pdf, translate, title)
	pdf.SetFont("Helvetica", "", 10)
	for _, row := range rows {
		pdf.SetFillColor(230, 230, 230)
		pdf.CellFormat(55, 8, translate(row[0]), "1", 0, "L", true, 0, "")
		pdf.SetFillColor(245, 240, 225)
		pdf.CellFormat(115, 8, translate(row[1]), "1", 1, "L", true, 0, "")
	}
}

func (s *ReportService) drawItemTable(pdf *fpdf.Fpdf, translate func(string) string, content *ReportContent) {
	s.drawSectionHeader(pdf, translate, "ITENS DE VERIFICAÇÃO")
	if len(content.ItemRows) == 0 {
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 7, translate("Nenhum item de verificação registrado."), "", 1, "L", false, 0, "")
		return
	}

	widths := [3]float64{90, 35, 45}
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(30, 60, 110)
	pdf.SetTextColor(255, 255, 255)
	for i, cell := range content.ItemHeader {
		pdf.CellFormat(widths[i], 8, translate(cell), "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFillColor(245, 240, 225)
	for _, row := range content.ItemRows {
		for i, cell := range row {
			pdf.CellFormat(widths[i], 7, translate(cell), "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
	}
}

func (s *ReportService) drawLineSection(pdf *fpdf.Fpdf, translate func(string) string, title string, lines []string, empty string) {
	s.drawSectionHeader(pdf, translate, title)
	pdf.SetFont("Helvetica", "", 10)
	if len(lines) == 0 {
		pdf.CellFormat(0, 7, translate(empty), "", 1, "L", false, 0, "")
		return
	}
	for _, line := range lines {
		pdf.CellFormat(0, 7, translate(line), "", 1, "L", false, 0, "")
	}
}

func decodeQuestions(raw string) []models.ChecklistQuestion {
	if raw == "" {
		return nil
	}
	var questions []models.ChecklistQuestion
	if err := json.Unmarshal([]byte(raw), &questions); err != nil {
		return nil
	}
	return questions
}

// describeSlots lists which named slots carry data, in stable order. Image
// and signature payloads are never decoded into the report.
func describeSlots(raw, presentLabel string) []string {
	if raw == "" {
		return nil
	}
	var slots map[string]any
	if err := json.Unmarshal([]byte(raw), &slots); err != nil {
		return nil
	}

	names := make([]string, 0, len(slots))
	for name := range slots {
		names = append(names, name)
	}
	sort.Strings(names)

	lines := make([]string, 0, len(names))
	for _, name := range names {
		if isEmptySlot(slots[name]) {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %s", titleCase(name), presentLabel))
	}
	return lines
}

func isEmptySlot(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case map[string]any:
		return len(v) == 0
	}
	return false
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func labelOr(labels map[string]string, key string) string {
	if label, ok := labels[key]; ok {
		return label
	}
	return key
}
