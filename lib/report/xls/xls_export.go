package xlsexport

import (
	"bytes"
	"fmt"

	interviewapimodels "ai-interview-backend/models/api/interview"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

type Provider interface {
	ExportReport(report interviewapimodels.Report) (*bytes.Buffer, error)
}

func NewHandler() Provider {
	return impl{}
}

type impl struct{}

var reportHeaders = []string{"№", "Вопрос", "Точность", "Коммуникация", "Поведение", "Комментарий"}

func (i impl) ExportReport(report interviewapimodels.Report) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Error("ошибка закрытия файла")
		}
	}()
	sheet := "Sheet1"
	row := 0
	row, err := writeHeader(f, sheet, row, reportHeaders)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка формирования заголовка в xlsx")
	}
	if len(report.Questions) != 0 {
		row, err = writeQuestionData(f, sheet, report.Questions, row)
		if err != nil {
			return nil, errors.Wrap(err, "ошибка формирования таблицы с данными в xlsx")
		}
	}
	if report.Scores != nil {
		if err = writeTotals(f, sheet, report, row); err != nil {
			return nil, errors.Wrap(err, "ошибка формирования итогов в xlsx")
		}
	}
	f.SetSheetName(sheet, "Отчёт по интервью")
	return f.WriteToBuffer()
}

func writeQuestionData(f *excelize.File, sheet string, list []interviewapimodels.QuestionFeedback, row int) (int, error) {
	if err := applyDataCellStyle(f, sheet, 1, row+1, len(reportHeaders), len(list)+1); err != nil {
		return row, err
	}
	for _, item := range list {
		row++
		// "№"
		col := 1
		if err := writeColumn(f, sheet, col, row, item.Order); err != nil {
			return row, err
		}

		// "Вопрос"
		col++
		if err := writeColumn(f, sheet, col, row, item.QuestionText); err != nil {
			return row, err
		}

		// "Точность"
		col++
		if err := writeColumn(f, sheet, col, row, item.Accuracy); err != nil {
			return row, err
		}

		// "Коммуникация"
		col++
		if err := writeColumn(f, sheet, col, row, item.Communication); err != nil {
			return row, err
		}

		// "Поведение"
		col++
		if err := writeColumn(f, sheet, col, row, item.Behavior); err != nil {
			return row, err
		}

		// "Комментарий"
		col++
		if err := writeColumn(f, sheet, col, row, item.Feedback); err != nil {
			return row, err
		}
	}
	return row, nil
}

func writeTotals(f *excelize.File, sheet string, report interviewapimodels.Report, row int) error {
	row += 2
	totals := [][2]interface{}{
		{"Техническая оценка", report.Scores.Technical},
		{"Коммуникация", report.Scores.Communication},
		{"Поведение", report.Scores.Behavior},
		{"Решение", string(report.Decision)},
	}
	for _, item := range totals {
		if err := writeColumn(f, sheet, 1, row, item[0]); err != nil {
			return err
		}
		if err := writeColumn(f, sheet, 2, row, fmt.Sprintf("%v", item[1])); err != nil {
			return err
		}
		row++
	}
	return nil
}
