package ports

import "xctasks/internal/types"

type RunReportPort interface {
	WriteRunReport(report types.RunReport, failed string) error
}
