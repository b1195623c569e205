package adapters

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"xctasks/internal/ports"
	"xctasks/internal/types"
)

const runReportFile = "run.report"

// OutputFileAdapter writes run artifacts into Dir.
type OutputFileAdapter struct {
	Dir string
}

func NewOutputFileAdapter(dir string) OutputFileAdapter {
	return OutputFileAdapter{Dir: dir}
}

// WriteRunReport records one `status,task` line per visited node in visit
// order. A failed task, when given, is appended last.
func (a OutputFileAdapter) WriteRunReport(report types.RunReport, failed string) error {
	path, err := a.ensurePath(runReportFile)
	if err != nil {
		return err
	}
	var lines []string
	for _, outcome := range report.Visited {
		lines = append(lines, fmt.Sprintf("%s,%s", outcome.Status, outcome.Name))
	}
	if failed != "" {
		lines = append(lines, fmt.Sprintf("failed,%s", failed))
	}
	content := strings.Join(lines, "\n")
	if content != "" {
		content += "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to write %s", path)).
			WithCause(err)
	}
	return nil
}

func (a OutputFileAdapter) ensurePath(filename string) (string, error) {
	if a.Dir == "" {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("output directory is empty")
	}
	if err := os.MkdirAll(a.Dir, 0755); err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create output directory").
			WithCause(err)
	}
	return filepath.Join(a.Dir, filename), nil
}

var _ ports.RunReportPort = OutputFileAdapter{}
