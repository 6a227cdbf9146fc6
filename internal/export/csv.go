// Package export writes measurement sessions to CSV.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"nano-measure/internal/distribution"
	"nano-measure/internal/grouping"
	"nano-measure/internal/measure"
)

// gaussianFormula documents the fitted curve for downstream readers of
// the exported file.
const gaussianFormula = "f(x) = (1/(σ√(2π))) × exp(-(x-μ)²/(2σ²))"

// WriteCSV writes the full session to w in four ordered sections: raw
// data, overall statistics, Gaussian fit parameters, and the sampled
// fit curve, followed by one section per group. The fit may be nil or
// unconverged; the corresponding rows then read N/A. All values are in
// the store's display unit, formatted deterministically.
func WriteCSV(w io.Writer, store *measure.Store, groups *grouping.Index, fit *distribution.Result) error {
	cw := csv.NewWriter(w)
	unit := store.Calibration().DisplayUnit().String()

	labels := make(map[int]string)
	if groups != nil {
		for _, g := range groups.All() {
			labels[g.ID] = g.Label
		}
	}

	rows := [][]string{
		{"Raw Data"},
		{"Index", "Diameter (" + unit + ")", "Pixels", "Group", "X1", "Y1", "X2", "Y2"},
	}
	for i, m := range store.All() {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%.6f", store.Calibration().ToDisplay(m.Physical)),
			fmt.Sprintf("%.6f", m.PixelDistance),
			labels[m.GroupID],
			fmt.Sprintf("%.2f", m.P1.X),
			fmt.Sprintf("%.2f", m.P1.Y),
			fmt.Sprintf("%.2f", m.P2.X),
			fmt.Sprintf("%.2f", m.P2.Y),
		})
	}

	rows = append(rows, []string{}, []string{"Statistics"})
	rows = append(rows, statsRows(store.Values(), unit)...)
	rows = append(rows,
		[]string{"Scale (" + unit + "/px)", fmt.Sprintf("%.6f", store.Calibration().FactorInDisplay())},
		[]string{"Unit", unit},
	)

	rows = append(rows, []string{}, []string{"Gaussian Fit"})
	rows = append(rows, []string{"Formula", gaussianFormula})
	if fit != nil && fit.Converged {
		rows = append(rows,
			[]string{"μ (" + unit + ")", fmt.Sprintf("%.6f", fit.Mu)},
			[]string{"σ (" + unit + ")", fmt.Sprintf("%.6f", fit.Sigma)},
		)
	} else {
		rows = append(rows,
			[]string{"μ (" + unit + ")", "N/A"},
			[]string{"σ (" + unit + ")", "N/A"},
		)
	}

	rows = append(rows, []string{}, []string{"Fit Curve"})
	rows = append(rows, []string{"x (" + unit + ")", "f(x)"})
	if fit != nil && fit.Converged {
		for i := range fit.CurveX {
			rows = append(rows, []string{
				fmt.Sprintf("%.6f", fit.CurveX[i]),
				fmt.Sprintf("%.6f", fit.CurveY[i]),
			})
		}
	}

	if groups != nil {
		for _, g := range groups.All() {
			rows = append(rows, []string{}, []string{"Group: " + g.Label})
			vals := store.GroupValues(g.ID)
			if len(vals) == 0 {
				rows = append(rows, []string{"Count", "0"})
				continue
			}
			rows = append(rows, statsRows(vals, unit)...)
		}
	}

	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveCSV writes the session to a file at path.
func SaveCSV(path string, store *measure.Store, groups *grouping.Index, fit *distribution.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	if err := WriteCSV(f, store, groups, fit); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func statsRows(vals []float64, unit string) [][]string {
	if len(vals) == 0 {
		return [][]string{{"Count", "0"}}
	}
	st := grouping.Summarize(vals)
	return [][]string{
		{"Count", fmt.Sprintf("%d", st.Count)},
		{"Mean (" + unit + ")", fmt.Sprintf("%.6f", st.Mean)},
		{"Std Dev (" + unit + ")", fmt.Sprintf("%.6f", st.Std)},
		{"Min (" + unit + ")", fmt.Sprintf("%.6f", st.Min)},
		{"Max (" + unit + ")", fmt.Sprintf("%.6f", st.Max)},
	}
}
