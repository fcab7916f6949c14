package report

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/google/uuid"
	"github.com/solacehq/solace/backend/internal/config"
	"github.com/solacehq/solace/backend/internal/model/chat"
)

// Section is one rendered block of a report document.
type Section struct {
	Heading string   `json:"heading"`
	Lines   []string `json:"lines"`
}

// Report is a generated session report plus its PDF location.
type Report struct {
	Title    string   `json:"title"`
	Sections []Section `json:"sections"`
	Analysis Analysis `json:"analysis"`
	FileName string   `json:"fileName"`
	FilePath string   `json:"-"`
}

// Service renders session transcripts into PDF reports.
type Service struct {
	dir string
}

// NewService prepares the reports directory.
func NewService(cfg config.ReportConfig) *Service {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		log.Printf("[report] failed to create reports dir %s: %v", cfg.Dir, err)
	}
	return &Service{dir: cfg.Dir}
}

// GenerateSessionReport analyzes the transcript and writes the PDF.
// reportType is one of summary, progress, analysis; anything else renders
// the summary layout.
func (s *Service) GenerateSessionReport(session chat.Session, messages []chat.Message, reportType string) (*Report, error) {
	analysis := Analyze(messages)

	var title string
	var sections []Section
	switch reportType {
	case "progress":
		title = "Therapy Progress Report"
		sections = progressSections(analysis)
	case "analysis":
		title = "Detailed Session Analysis"
		sections = analysisSections(analysis)
	default:
		title = "Therapy Session Summary"
		sections = summarySections(analysis)
	}

	sections = append([]Section{sessionInfoSection(session, analysis)}, sections...)

	fileName := fmt.Sprintf("report_%s_%s_%s.pdf", session.ID, reportType, time.Now().Format("20060102_150405"))
	filePath := filepath.Join(s.dir, fileName)
	if err := renderPDF(filePath, title, sections); err != nil {
		return nil, fmt.Errorf("failed to render report pdf: %w", err)
	}

	return &Report{
		Title:    title,
		Sections: sections,
		Analysis: analysis,
		FileName: fileName,
		FilePath: filePath,
	}, nil
}

// WriteTextReport renders free-form report text into a PDF, one paragraph
// per block, and returns the file name. Used for clinical interview reports
// whose body is produced elsewhere.
func (s *Service) WriteTextReport(title, content string) (string, error) {
	fileName := fmt.Sprintf("report_%s_%s.pdf", uuid.NewString()[:8], time.Now().Format("20060102_150405"))
	path := filepath.Join(s.dir, fileName)

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.MultiCell(0, 10, title, "", "C", false)
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "", 11)
	for _, para := range strings.Split(content, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		pdf.MultiCell(0, 6, para, "", "L", false)
		pdf.Ln(3)
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("failed to render report pdf: %w", err)
	}
	return fileName, nil
}

// FilePath resolves a previously generated report by file name. The name is
// validated against path traversal before touching the filesystem.
func (s *Service) FilePath(fileName string) (string, bool) {
	if fileName != filepath.Base(fileName) || !strings.HasSuffix(fileName, ".pdf") {
		return "", false
	}
	path := filepath.Join(s.dir, fileName)
	if _, err := os.Stat(path); err != nil {
		return "", false
	}
	return path, true
}

func sessionInfoSection(session chat.Session, analysis Analysis) Section {
	return Section{
		Heading: "Session Information",
		Lines: []string{
			"Title: " + session.Title,
			"Date: " + session.CreatedAt.Format("2006-01-02 15:04"),
			fmt.Sprintf("Duration: %.1f minutes", analysis.DurationMinutes),
			"Personality: " + session.Personality,
		},
	}
}

func summarySections(a Analysis) []Section {
	return []Section{
		{
			Heading: "Overview",
			Lines: []string{
				fmt.Sprintf("Total exchanges: %d", a.UserMessages),
				"Main topics: " + joinOrNone(a.Topics),
				"Overall sentiment: " + a.Sentiment.Overall,
				"Engagement level: " + EngagementLevel(a.EngagementScore),
			},
		},
		{Heading: "Key Insights", Lines: keyInsights(a)},
		{Heading: "Recommendations", Lines: recommendations(a)},
	}
}

func progressSections(a Analysis) []Section {
	return []Section{
		{
			Heading: "Progress Indicators",
			Lines: []string{
				fmt.Sprintf("Communication quality: %.1f%%", a.EngagementScore),
				fmt.Sprintf("Topics explored: %d", len(a.Topics)),
				fmt.Sprintf("Emotional expression: %s (positive %.3f / negative %.3f)",
					a.Sentiment.Overall, a.Sentiment.PositiveRatio, a.Sentiment.NegativeRatio),
			},
		},
		{Heading: "Areas of Focus", Lines: bulletsOrNone(a.Topics)},
		{Heading: "Mood Patterns", Lines: moodLines(a.MoodDistribution)},
		{
			Heading: "Next Steps",
			Lines: []string{
				"Continue building therapeutic rapport",
				"Follow up on identified themes",
				"Introduce relevant coping strategies",
			},
		},
	}
}

func analysisSections(a Analysis) []Section {
	avgLen := 0.0
	if a.UserMessages > 0 {
		avgLen = float64(a.UserWordCount) / float64(a.UserMessages)
	}

	return []Section{
		{
			Heading: "Statistical Analysis",
			Lines: []string{
				fmt.Sprintf("Message count: %d", a.TotalMessages),
				fmt.Sprintf("User word count: %d", a.UserWordCount),
				fmt.Sprintf("Average message length: %.1f words", avgLen),
			},
		},
		{
			Heading: "Content Analysis",
			Lines: append([]string{
				"Topics: " + joinOrNone(a.Topics),
				"Sentiment: " + a.Sentiment.Overall,
			}, moodLines(a.MoodDistribution)...),
		},
		{
			Heading: "Therapeutic Insights",
			Lines: []string{
				fmt.Sprintf("Session showed %.1f%% engagement level", a.EngagementScore),
				"Primary therapeutic themes: " + joinOrNone(a.Topics),
				"Emotional tone: " + a.Sentiment.Overall,
			},
		},
	}
}

func keyInsights(a Analysis) []string {
	var insights []string
	if a.EngagementScore > 70 {
		insights = append(insights, "High level of engagement and active participation observed.")
	} else if a.EngagementScore < 30 {
		insights = append(insights, "Lower engagement levels - may benefit from different therapeutic approaches.")
	}
	if len(a.Topics) > 3 {
		insights = append(insights, "Multiple therapeutic areas identified for exploration.")
	}
	switch a.Sentiment.Overall {
	case "positive":
		insights = append(insights, "Overall positive emotional tone throughout the session.")
	case "negative":
		insights = append(insights, "Challenging emotions present - important therapeutic opportunity.")
	}
	if len(insights) == 0 {
		insights = append(insights, "Session completed without notable deviations.")
	}
	return insights
}

func recommendations(a Analysis) []string {
	var recs []string
	for _, topic := range a.Topics {
		switch topic {
		case "anxiety":
			recs = append(recs, "Consider anxiety management techniques in future sessions.")
		case "relationships":
			recs = append(recs, "Explore relationship dynamics and communication patterns.")
		}
	}
	if a.EngagementScore < 50 {
		recs = append(recs, "Consider adjusting therapeutic approach to increase engagement.")
	}
	if len(recs) == 0 {
		recs = append(recs, "Maintain the current therapeutic direction.")
	}
	return recs
}

func moodLines(distribution map[string]int) []string {
	if len(distribution) == 0 {
		return []string{"No mood data recorded."}
	}

	moods := make([]string, 0, len(distribution))
	for m := range distribution {
		moods = append(moods, m)
	}
	sort.Strings(moods)

	lines := make([]string, 0, len(moods))
	for _, m := range moods {
		lines = append(lines, fmt.Sprintf("%s: %d", m, distribution[m]))
	}
	return lines
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none identified"
	}
	return strings.Join(items, ", ")
}

func bulletsOrNone(items []string) []string {
	if len(items) == 0 {
		return []string{"none identified"}
	}
	return items
}

func renderPDF(path, title string, sections []Section) error {
	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.MultiCell(0, 10, title, "", "C", false)
	pdf.Ln(4)

	for _, section := range sections {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.MultiCell(0, 8, section.Heading, "", "L", false)
		pdf.SetFont("Helvetica", "", 11)
		for _, line := range section.Lines {
			pdf.MultiCell(0, 6, "- "+line, "", "L", false)
		}
		pdf.Ln(3)
	}

	return pdf.OutputFileAndClose(path)
}
