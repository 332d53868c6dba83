package payroll

import (
	"context"
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var payslipPrinter = message.NewPrinter(language.MustParse("pt-AO"))

// FormatKwanza renders a whole-unit amount with pt-AO digit grouping and the Kz suffix.
func FormatKwanza(amount decimal.Decimal) string {
	return payslipPrinter.Sprintf("%d Kz", RoundMoney(amount).IntPart())
}

type payslipLine struct {
	label  string
	amount decimal.Decimal
}

// RenderPayslip writes a one-page PDF payslip for an entry.
func RenderPayslip(w io.Writer, period Period, entry Entry, company string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, tr("Recibo de Vencimento"))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	if company != "" {
		pdf.Cell(0, 7, tr(company))
		pdf.Ln(7)
	}
	pdf.Cell(0, 7, tr(fmt.Sprintf("Período: %s", period.Label())))
	pdf.Ln(7)
	pdf.Cell(0, 7, tr(fmt.Sprintf("Funcionário: %s", entry.EmployeeName)))
	pdf.Ln(7)
	if entry.Position != "" {
		pdf.Cell(0, 7, tr(fmt.Sprintf("Função: %s", entry.Position)))
		pdf.Ln(7)
	}
	pdf.Ln(4)

	earnings := []payslipLine{
		{"Salário base", entry.Earnings.Base},
		{"Subsídio de alimentação", entry.Earnings.Meal},
		{"Subsídio de transporte", entry.Earnings.Transport},
		{"Abono de família", entry.Earnings.Family},
		{"Outros subsídios", entry.Earnings.Other},
		{"Horas extra", entry.Earnings.OvertimeNormal},
		{"Horas extra nocturnas", entry.Earnings.OvertimeNight},
		{"Horas extra em feriado", entry.Earnings.OvertimeHoliday},
		{"Subsídio de Natal", entry.Earnings.ThirteenthMonth},
		{"Subsídio de férias", entry.Earnings.HolidaySubsidy},
		{"Prémio mensal", entry.Earnings.MonthlyBonus},
	}
	deductions := []payslipLine{
		{"IRT", entry.Deductions.IRT},
		{"Segurança social (3%)", entry.Deductions.INSSEmployee},
		{"Faltas e atrasos", entry.Deductions.Absence},
		{"Empréstimo", entry.Deductions.Loan},
		{"Adiantamento", entry.Deductions.Advance},
		{"Outros descontos", entry.Deductions.Other},
	}

	section := func(title string, lines []payslipLine, total payslipLine) {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, tr(title))
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 11)
		for _, line := range lines {
			if line.amount.IsZero() {
				continue
			}
			pdf.CellFormat(120, 7, tr(line.label), "", 0, "L", false, 0, "")
			pdf.CellFormat(60, 7, tr(FormatKwanza(line.amount)), "", 1, "R", false, 0, "")
		}
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(120, 7, tr(total.label), "T", 0, "L", false, 0, "")
		pdf.CellFormat(60, 7, tr(FormatKwanza(total.amount)), "T", 1, "R", false, 0, "")
		pdf.Ln(4)
	}
	section("Remunerações", earnings, payslipLine{"Total ilíquido", entry.GrossSalary})
	section("Descontos", deductions, payslipLine{"Total de descontos", entry.TotalDeductions})

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(120, 9, tr("Líquido a receber"), "", 0, "L", false, 0, "")
	pdf.CellFormat(60, 9, tr(FormatKwanza(entry.NetSalary)), "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.Ln(6)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Encargo da entidade patronal (INSS 8%%): %s", FormatKwanza(entry.INSSEmployer))))

	return pdf.Output(w)
}

// WritePayslip renders the payslip of one employee in one period.
func (s *Service) WritePayslip(ctx context.Context, periodID, employeeID, company string, w io.Writer) error {
	period, err := s.store.GetPeriod(ctx, periodID)
	if err != nil {
		return err
	}
	entry, err := s.store.GetEntry(ctx, periodID, employeeID)
	if err != nil {
		return err
	}
	return RenderPayslip(w, *period, *entry, company)
}
