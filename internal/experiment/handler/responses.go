package handler

import (
	"time"

	"statlab/internal/experiment/models"
	"statlab/internal/stats"
)

// RunResponse is the full wire form of a run, including the sample the
// frontend plots.
type RunResponse struct {
	ID              string         `json:"id"`
	Mean            float64        `json:"mean"`
	StdDev          float64        `json:"std_dev"`
	SampleSize      int            `json:"sample_size"`
	ConfidenceLevel float64        `json:"confidence_level"`
	Sample          []float64      `json:"sample"`
	Summary         stats.Summary  `json:"summary"`
	Interval        stats.Interval `json:"interval"`
	Covers          bool           `json:"covers_true_mean"`
	CreatedAt       time.Time      `json:"created_at"`
}

// RunSummaryView is the list wire form; samples are omitted to keep
// history listings small.
type RunSummaryView struct {
	ID              string         `json:"id"`
	Mean            float64        `json:"mean"`
	StdDev          float64        `json:"std_dev"`
	SampleSize      int            `json:"sample_size"`
	ConfidenceLevel float64        `json:"confidence_level"`
	Summary         stats.Summary  `json:"summary"`
	Interval        stats.Interval `json:"interval"`
	Covers          bool           `json:"covers_true_mean"`
	CreatedAt       time.Time      `json:"created_at"`
}

// ListRunsResponse wraps history listings with the aggregate coverage
// fraction shown by the teaching UI.
type ListRunsResponse struct {
	Runs     []RunSummaryView `json:"runs"`
	Coverage float64          `json:"coverage"`
}

// ClearRunsResponse reports how many runs a history clear removed.
type ClearRunsResponse struct {
	Deleted int `json:"deleted"`
}

// FromRun converts a domain run to its full wire form.
func FromRun(run *models.Run) RunResponse {
	return RunResponse{
		ID:              run.ID.String(),
		Mean:            run.Spec.Mean,
		StdDev:          run.Spec.StdDev,
		SampleSize:      run.Spec.Size,
		ConfidenceLevel: float64(run.Level),
		Sample:          run.Sample,
		Summary:         run.Summary,
		Interval:        run.Interval,
		Covers:          run.Covers(),
		CreatedAt:       run.CreatedAt,
	}
}

// FromRuns converts runs to the list wire form with aggregate coverage.
func FromRuns(runs []*models.Run) ListRunsResponse {
	views := make([]RunSummaryView, 0, len(runs))
	covered := 0
	for _, run := range runs {
		covers := run.Covers()
		if covers {
			covered++
		}
		views = append(views, RunSummaryView{
			ID:              run.ID.String(),
			Mean:            run.Spec.Mean,
			StdDev:          run.Spec.StdDev,
			SampleSize:      run.Spec.Size,
			ConfidenceLevel: float64(run.Level),
			Summary:         run.Summary,
			Interval:        run.Interval,
			Covers:          covers,
			CreatedAt:       run.CreatedAt,
		})
	}

	resp := ListRunsResponse{Runs: views}
	if len(runs) > 0 {
		resp.Coverage = float64(covered) / float64(len(runs))
	}
	return resp
}
