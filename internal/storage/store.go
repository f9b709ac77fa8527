package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/stepviz/internal/export"
	"github.com/san-kum/stepviz/internal/logging"
	"github.com/san-kum/stepviz/internal/topics"
	"github.com/san-kum/stepviz/internal/viz"
)

// Formats understood by SaveTopic.
const (
	FormatSVG  = "svg"
	FormatJSON = "json"
	FormatCSV  = "csv"
)

var AllFormats = []string{FormatSVG, FormatJSON, FormatCSV}

type Store struct {
	baseDir string
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

type ExportMetadata struct {
	ID        string    `json:"id"`
	Topic     string    `json:"topic"`
	Name      string    `json:"name"`
	Title     string    `json:"title"`
	Timestamp time.Time `json:"timestamp"`
	Steps     int       `json:"steps"`
	Formats   []string  `json:"formats"`
	Theme     string    `json:"theme"`
}

// StepRecord is one step as written to steps.json.
type StepRecord struct {
	Index  int                `json:"index"`
	Line   int                `json:"line"`
	Word   int                `json:"word"`
	Text   string             `json:"text"`
	Values map[string]float64 `json:"values"`
	Labels []string           `json:"labels"`
}

// Options control what SaveTopic renders.
type Options struct {
	Formats []string
	Theme   viz.Theme
	Camera  *viz.Camera
	// Canvas size in cells, and SVG pixels per dot.
	Width, Height int
	Scale         float64
}

func (o Options) has(f string) bool {
	for _, x := range o.Formats {
		if x == f {
			return true
		}
	}
	return false
}

// SaveTopic writes every step of t under a new export directory and
// returns its id.
func (s *Store) SaveTopic(t topics.Topic, opts Options) (string, error) {
	if len(opts.Formats) == 0 {
		opts.Formats = AllFormats
	}
	if opts.Width <= 0 {
		opts.Width = 60
	}
	if opts.Height <= 0 {
		opts.Height = 18
	}
	if opts.Camera == nil {
		opts.Camera = viz.NewCamera()
		viz.FitTopic(opts.Camera, t)
	}

	now := s.now()
	id := fmt.Sprintf("%s_%d", t.Key(), now.Unix())
	dir := filepath.Join(s.baseDir, id)
	for n := 2; ; n++ {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			break
		}
		id = fmt.Sprintf("%s_%d_%d", t.Key(), now.Unix(), n)
		dir = filepath.Join(s.baseDir, id)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	frames := make([]topics.Frame, t.Len())
	for i := range frames {
		frames[i] = t.Frame(i)
	}

	meta := ExportMetadata{
		ID:        id,
		Topic:     t.Key(),
		Name:      t.Name(),
		Title:     t.Title(),
		Timestamp: now,
		Steps:     t.Len(),
		Formats:   opts.Formats,
		Theme:     opts.Theme.Name,
	}
	if err := writeJSON(filepath.Join(dir, "metadata.json"), meta); err != nil {
		return "", err
	}

	if opts.has(FormatJSON) {
		records := make([]StepRecord, len(frames))
		for i, f := range frames {
			records[i] = StepRecord{
				Index:  f.Index,
				Line:   f.Cursor.Line,
				Word:   f.Cursor.Word,
				Text:   f.Text,
				Values: f.Values,
				Labels: f.Scene.Labels(),
			}
		}
		if err := writeJSON(filepath.Join(dir, "steps.json"), records); err != nil {
			return "", err
		}
	}

	if opts.has(FormatCSV) {
		if err := writeCSV(filepath.Join(dir, "steps.csv"), frames); err != nil {
			return "", err
		}
	}

	if opts.has(FormatSVG) {
		if err := writeSVG(dir, frames, opts); err != nil {
			return "", err
		}
	}

	logging.Logger().Info("export written", "id", id, "dir", dir, "formats", opts.Formats)
	return id, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeCSV(path string, frames []topics.Frame) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	names, _ := topics.FrameSeries(frames)
	header := append([]string{"index", "line", "word", "text"}, names...)
	if err := w.Write(header); err != nil {
		return err
	}
	for _, fr := range frames {
		row := []string{
			strconv.Itoa(fr.Index),
			strconv.Itoa(fr.Cursor.Line),
			strconv.Itoa(fr.Cursor.Word),
			fr.Text,
		}
		for _, n := range names {
			cell := ""
			if v, ok := fr.Values[n]; ok {
				cell = strconv.FormatFloat(v, 'f', -1, 64)
			}
			row = append(row, cell)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeSVG(dir string, frames []topics.Frame, opts Options) error {
	framesDir := filepath.Join(dir, "frames")
	if err := os.MkdirAll(framesDir, 0755); err != nil {
		return err
	}
	view := viz.View{Styles: viz.NewStyles(opts.Theme), Camera: opts.Camera, Width: opts.Width, Height: opts.Height}
	for _, f := range frames {
		out := export.SVG(view.Canvas(f), opts.Theme, opts.Scale)
		name := fmt.Sprintf("step_%02d.svg", f.Index)
		if err := os.WriteFile(filepath.Join(framesDir, name), []byte(out), 0644); err != nil {
			return err
		}
	}

	names, series := topics.FrameSeries(frames)
	for _, n := range names {
		out := export.TraceSVG(series[n], 480, 160, string(opts.Theme.Subtitle))
		if out == "" {
			continue
		}
		if err := os.WriteFile(filepath.Join(dir, "trace_"+n+".svg"), []byte(out), 0644); err != nil {
			return err
		}
	}
	return nil
}

// List returns previous exports, oldest first.
func (s *Store) List() ([]ExportMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []ExportMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]ExportMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	sort.SliceStable(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(id string) (*ExportMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, id, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta ExportMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadValues reads the observable columns of steps.csv back, one row per
// step.
func (s *Store) LoadValues(id string) ([]string, [][]float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, id, "steps.csv"))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, nil
	}

	const fixed = 4 // index, line, word, text
	names := records[0][min(fixed, len(records[0])):]
	rows := make([][]float64, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make([]float64, len(names))
		for j := range names {
			// blank cells are steps without the value
			row[j] = math.NaN()
			if fixed+j >= len(rec) {
				continue
			}
			if v, err := strconv.ParseFloat(rec[fixed+j], 64); err == nil {
				row[j] = v
			}
		}
		rows = append(rows, row)
	}
	return names, rows, nil
}
