package typegen

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"path"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/teranos/schemagen/errors"
	"github.com/teranos/schemagen/schema"
	"github.com/teranos/schemagen/typegen/format"
	"github.com/teranos/schemagen/typegen/scaffold"
)

// CheckResult holds the result of a generated-files check
type CheckResult struct {
	UpToDate bool
	// Stale lists owned files whose content would change
	Stale []string
	// Pending lists scaffold files a run would create or extend
	Pending []string
	// Orphans lists scaffold files no schema type backs
	Orphans []string
}

// Check runs generation against a copy-on-write layer over base and reports
// what a real run would change. Nothing is written to base.
func Check(ctx context.Context, s *schema.Schema, base afero.Fs, formatter format.Formatter, opts Options, log *zap.SugaredLogger) (*CheckResult, error) {
	overlay := afero.NewCopyOnWriteFs(afero.NewReadOnlyFs(base), afero.NewMemMapFs())

	report, err := New(s, overlay, formatter, opts, log).Run(ctx)
	if err != nil {
		return nil, err
	}

	result := &CheckResult{Orphans: report.Orphans()}
	for _, f := range report.Files() {
		if !f.Outcome.Wrote() {
			continue
		}
		if f.Class != scaffold.Owned {
			result.Pending = append(result.Pending, f.Path)
			continue
		}

		target := path.Join(opts.Out, f.Path)
		different, err := filesAreDifferent(base, overlay, target)
		if err != nil {
			return nil, err
		}
		if different {
			result.Stale = append(result.Stale, f.Path)
		}
	}

	result.UpToDate = len(result.Stale) == 0 && len(result.Pending) == 0
	return result, nil
}

// filesAreDifferent compares target on both filesystems, ignoring the regenerate
// line of the banner. A file missing from existing differs.
func filesAreDifferent(existing, generated afero.Fs, target string) (bool, error) {
	current, err := afero.ReadFile(existing, target)
	if os.IsNotExist(err) {
		return true, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "failed to read %s", target)
	}

	fresh, err := afero.ReadFile(generated, target)
	if err != nil {
		return false, errors.Wrapf(err, "failed to read generated %s", target)
	}

	return filterMetadataLines(current) != filterMetadataLines(fresh), nil
}

// filterMetadataLines removes banner lines that depend on how generation was
// invoked rather than on the schema. Returns empty string if the scanner fails.
func filterMetadataLines(content []byte) string {
	var result strings.Builder
	scanner := bufio.NewScanner(bytes.NewReader(content))

	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(strings.TrimSpace(line), "// Regenerate with:") {
			continue
		}
		result.WriteString(line)
		result.WriteString("\n")
	}

	if err := scanner.Err(); err != nil {
		return ""
	}
	return result.String()
}
