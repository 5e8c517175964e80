// Package export renders collected quiz results into an xlsx workbook
// with per-student, per-question and summary sheets.
package export

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"quizlink/internal/domain"
)

const (
	sheetResults   = "Results"
	sheetQuestions = "Questions"
	sheetSummary   = "Summary"
)

// ExcelExporter implements domain.ResultExporter using excelize.
type ExcelExporter struct{}

// NewExcelExporter creates a new instance of ExcelExporter.
func NewExcelExporter() domain.ResultExporter {
	return &ExcelExporter{}
}

// Export builds the workbook. The context is honored between sheets so
// a cancelled export does not keep burning CPU on large result sets.
func (e *ExcelExporter) Export(ctx context.Context, quiz *domain.Quiz, results []domain.Result) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", sheetResults)
	if err := e.writeResults(f, quiz, results); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(sheetQuestions); err != nil {
		return nil, err
	}
	if err := e.writeQuestions(f, quiz, results); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(sheetSummary); err != nil {
		return nil, err
	}
	if err := e.writeSummary(f, results); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *ExcelExporter) writeResults(f *excelize.File, quiz *domain.Quiz, results []domain.Result) error {
	header := []interface{}{"Student", "Score", "Total", "Percentage", "Passed", "Completed At"}
	for i := range quiz.Questions {
		header = append(header, fmt.Sprintf("Q%d", i+1))
	}
	if err := writeRow(f, sheetResults, 1, header); err != nil {
		return err
	}

	for ri := range results {
		r := &results[ri]
		row := []interface{}{
			r.StudentName,
			r.Score,
			r.TotalQuestions,
			fmt.Sprintf("%.1f%%", r.Percentage()),
			r.Passed(),
			r.CompletedAt.Format(time.RFC3339),
		}
		for pos := range quiz.Questions {
			row = append(row, answerCell(quiz, r, pos))
		}
		if err := writeRow(f, sheetResults, ri+2, row); err != nil {
			return err
		}
	}
	return nil
}

// answerCell renders one student's answer to one question: the chosen
// option text, "-" for absent, with a correctness marker.
func answerCell(quiz *domain.Quiz, r *domain.Result, pos int) string {
	ans, ok := r.Answers[pos]
	if !ok || ans == domain.AnswerAbsent {
		return "-"
	}
	q := &quiz.Questions[pos]
	text := fmt.Sprintf("option %d", ans)
	if ans >= 0 && ans < len(q.Options) {
		text = q.Options[ans]
	}
	if ans == q.CorrectAnswer {
		return text + " ✓"
	}
	return text + " ✗"
}

func (e *ExcelExporter) writeQuestions(f *excelize.File, quiz *domain.Quiz, results []domain.Result) error {
	header := []interface{}{"#", "Question", "Category", "Correct Answer", "Correct", "Wrong", "Absent", "Correct Rate"}
	if err := writeRow(f, sheetQuestions, 1, header); err != nil {
		return err
	}

	for pos := range quiz.Questions {
		q := &quiz.Questions[pos]
		correct, wrong, absent := 0, 0, 0
		for ri := range results {
			ans, ok := results[ri].Answers[pos]
			switch {
			case !ok || ans == domain.AnswerAbsent:
				absent++
			case ans == q.CorrectAnswer:
				correct++
			default:
				wrong++
			}
		}
		rate := 0.0
		if len(results) > 0 {
			rate = float64(correct) / float64(len(results)) * 100
		}
		correctText := ""
		if q.CorrectAnswer >= 0 && q.CorrectAnswer < len(q.Options) {
			correctText = q.Options[q.CorrectAnswer]
		}
		row := []interface{}{
			pos + 1, q.Text, q.Category, correctText,
			correct, wrong, absent, fmt.Sprintf("%.1f%%", rate),
		}
		if err := writeRow(f, sheetQuestions, pos+2, row); err != nil {
			return err
		}
	}
	return nil
}

func (e *ExcelExporter) writeSummary(f *excelize.File, results []domain.Result) error {
	var scoreSum float64
	passed := 0
	highest, lowest := 0, 0
	if len(results) > 0 {
		highest, lowest = results[0].Score, results[0].Score
	}
	for i := range results {
		scoreSum += float64(results[i].Score)
		if results[i].Passed() {
			passed++
		}
		if results[i].Score > highest {
			highest = results[i].Score
		}
		if results[i].Score < lowest {
			lowest = results[i].Score
		}
	}
	average, passRate := 0.0, 0.0
	if n := float64(len(results)); n > 0 {
		average = scoreSum / n
		passRate = float64(passed) / n * 100
	}
	rows := [][]interface{}{
		{"Students", len(results)},
		{"Average Score", average},
		{"Pass Rate", fmt.Sprintf("%.1f%%", passRate)},
		{"Highest Score", highest},
		{"Lowest Score", lowest},
		{"Exported At", time.Now().Format(time.RFC3339)},
	}
	for i, row := range rows {
		if err := writeRow(f, sheetSummary, i+1, row); err != nil {
			return err
		}
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}
