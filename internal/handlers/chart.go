package handlers

import (
	"fmt"
	"net/http"

	"prompt-contest-backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const bucketWidth = 10

// scoreBuckets counts scores in bands of ten. A perfect 100 lands in the
// top band.
func scoreBuckets(entries []services.RankedEntry) ([]string, []int) {
	n := 100 / bucketWidth
	labels := make([]string, n)
	counts := make([]int, n)
	for i := 0; i < n; i++ {
		lo := i * bucketWidth
		hi := lo + bucketWidth - 1
		if i == n-1 {
			hi = 100
		}
		labels[i] = fmt.Sprintf("%d-%d", lo, hi)
	}
	for _, e := range entries {
		idx := min(max(e.Submission.Score/bucketWidth, 0), n-1)
		counts[idx]++
	}
	return labels, counts
}

// Chart godoc
// @Summary      Score distribution chart
// @Description  HTML bar chart of submission scores
// @Tags         admin
// @Produce      html
// @Security     BearerAuth
// @Success      200 {string} string "HTML page"
// @Failure      401 {object} ErrorResponse
// @Router       /api/v1/admin/chart [get]
func (h *AdminHandler) Chart(c *gin.Context) {
	lb, err := h.contest.Leaderboard(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	labels, counts := scoreBuckets(lb.Entries)
	data := make([]opts.BarData, len(counts))
	for i, n := range counts {
		data[i] = opts.BarData{Value: n}
	}

	subtitle := "no submissions yet"
	if lb.Stats != nil {
		subtitle = fmt.Sprintf("%d submissions, best %d, average %d", lb.Stats.Count, lb.Stats.MaxScore, lb.Stats.AverageScore)
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Score distribution", Subtitle: subtitle}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Score"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Submissions"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(labels).AddSeries("Submissions", data)

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := bar.Render(c.Writer); err != nil {
		c.Error(err)
	}
}
