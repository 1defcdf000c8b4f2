package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"math"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/san-kum/numlab/internal/viz"
)

func quietStore(dir string) *Store {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return New(dir).WithLogger(log)
}

func testFigure() *viz.Figure {
	return viz.NewFigure("interp", "Interpolation", "x", "y").
		AddPoints("data", []float64{0, 1}, []float64{0.1, 0.3}).
		Add("spline", []float64{0, 0.5, 1}, []float64{0.1, 1.0 / 3, 0.3})
}

func TestStoreSaveLoad(t *testing.T) {
	st := quietStore(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save("interp", "quick", map[string]float64{"peak": 2.94}, []*viz.Figure{testFigure()})
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.HasPrefix(runID, "interp_") {
		t.Errorf("unexpected run id %q", runID)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Study != "interp" || meta.Preset != "quick" {
		t.Errorf("unexpected metadata %+v", meta)
	}
	if meta.Summary["peak"] != 2.94 {
		t.Errorf("expected peak 2.94, got %f", meta.Summary["peak"])
	}
	if len(meta.Figures) != 1 || meta.Figures[0].Title != "Interpolation" {
		t.Errorf("unexpected figures %+v", meta.Figures)
	}

	fig, err := st.LoadFigure(runID, "interp")
	if err != nil {
		t.Fatalf("load figure failed: %v", err)
	}
	if len(fig.Series) != 2 {
		t.Fatalf("expected 2 series, got %d", len(fig.Series))
	}
	if fig.Series[0].Name != "data" || fig.Series[0].Marker != viz.Crosses {
		t.Errorf("point series not restored: %+v", fig.Series[0])
	}
	if fig.Series[1].Marker != viz.Line || len(fig.Series[1].X) != 3 {
		t.Errorf("line series not restored: %+v", fig.Series[1])
	}
	if fig.Series[1].Y[1] != 1.0/3 {
		t.Errorf("values should round-trip exactly, got %v", fig.Series[1].Y[1])
	}
}

func TestStoreFigureCSVLayout(t *testing.T) {
	st := quietStore(t.TempDir())
	runID, err := st.Save("interp", "", nil, []*viz.Figure{testFigure()})
	if err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(st.FigurePath(runID, "interp"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if lines[0] != "series,x,y" {
		t.Errorf("unexpected header %q", lines[0])
	}
	if len(lines) != 6 {
		t.Errorf("expected 5 data rows, got %d", len(lines)-1)
	}
	if lines[1] != "data,0,0.1" {
		t.Errorf("unexpected first row %q", lines[1])
	}
}

func TestStoreList(t *testing.T) {
	st := quietStore(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	st.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	for _, study := range []string{"ode", "float"} {
		if _, err := st.Save(study, "", nil, nil); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}
	if err := os.Mkdir(st.baseDir+"/junk", 0755); err != nil {
		t.Fatal(err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].Study != "ode" || runs[1].Study != "float" {
		t.Errorf("runs not in time order: %s, %s", runs[0].Study, runs[1].Study)
	}
}

func TestStoreListMissingDir(t *testing.T) {
	st := quietStore(t.TempDir() + "/missing")
	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}

func TestStoreLoadMissing(t *testing.T) {
	st := quietStore(t.TempDir())
	if _, err := st.Load("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
}

func TestExportJSON(t *testing.T) {
	st := quietStore(t.TempDir())
	runID, err := st.Save("interp", "", map[string]float64{"n": 3}, []*viz.Figure{testFigure()})
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := st.ExportJSON(&buf, runID); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var out ExportData
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if out.ID != runID || out.Summary["n"] != 3 {
		t.Errorf("metadata missing from export: %+v", out.RunMetadata)
	}
	if len(out.Data["interp"]) != 2 || out.Data["interp"][1].Name != "spline" {
		t.Errorf("figure data missing from export: %+v", out.Data)
	}
}

func TestStoreDropsNonFiniteSummary(t *testing.T) {
	st := quietStore(t.TempDir())
	runID, err := st.Save("ode", "", map[string]float64{"ok": 1, "bad": math.Inf(1), "nan": math.NaN()}, nil)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	meta, err := st.Load(runID)
	if err != nil {
		t.Fatal(err)
	}
	if len(meta.Summary) != 1 || meta.Summary["ok"] != 1 {
		t.Errorf("unexpected summary %v", meta.Summary)
	}
}

func TestExportJSONNonFiniteData(t *testing.T) {
	st := quietStore(t.TempDir())
	fig := viz.NewFigure("residuals", "Residuals", "t", "r").
		Add("rk4", []float64{0, 1, 2}, []float64{1e-12, math.NaN(), math.Inf(1)})
	runID, err := st.Save("compare", "", nil, []*viz.Figure{fig})
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := st.ExportJSON(&buf, runID); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var out ExportData
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	series := out.Data["residuals"]
	if len(series) != 1 || len(series[0].X) != 1 || series[0].Y[0] != 1e-12 {
		t.Errorf("unexpected exported data %+v", series)
	}

	// The CSV keeps the raw values.
	loaded, err := st.LoadFigure(runID, "residuals")
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded.Series[0].Y) != 3 || !math.IsNaN(loaded.Series[0].Y[1]) {
		t.Errorf("unexpected stored series %+v", loaded.Series[0])
	}
}
