package dataset

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/disintegration/imaging"

	"github.com/MNGARCIA085/shapedetect/internal/synth"
)

// labelsFileName is the sidecar that pairs every image file with its labels.
const labelsFileName = "labels.json"

var sampleRegexp = regexp.MustCompile(`^sample-[0-9]{6}\.png$`)

type classRecord struct {
	Name  string `json:"name"`
	Shape int    `json:"shape"`
	Color string `json:"color"`
}

type sampleRecord struct {
	File     string      `json:"file"`
	Presence []float64   `json:"presence"`
	Boxes    []synth.Box `json:"boxes"`
}

type labelsFile struct {
	CanvasSize int            `json:"canvas_size"`
	ShapeSize  int            `json:"shape_size"`
	Margin     int            `json:"margin"`
	Classes    []classRecord  `json:"classes"`
	Samples    []sampleRecord `json:"samples"`
}

// Save writes the set into dir: one PNG per sample plus a labels.json
// sidecar holding presence vectors, normalized boxes, and the generator
// configuration. dir is created if missing.
func (s *Set) Save(dir string) error {
	if s.Len() == 0 {
		return fmt.Errorf("dataset: nothing to save")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dataset dir: %w", err)
	}

	labels := labelsFile{
		CanvasSize: s.Config.CanvasSize,
		ShapeSize:  s.Config.ShapeSize,
		Margin:     s.Config.Margin,
	}
	for _, class := range s.Config.Classes {
		labels.Classes = append(labels.Classes, classRecord{
			Name:  class.Name,
			Shape: int(class.Shape),
			Color: synth.HexColor(class.Color),
		})
	}

	for i, sample := range s.Samples {
		name := fmt.Sprintf("sample-%06d.png", i)
		if err := imgio.Save(filepath.Join(dir, name), sample.Image, imgio.PNGEncoder()); err != nil {
			return fmt.Errorf("save %s: %w", name, err)
		}
		labels.Samples = append(labels.Samples, sampleRecord{
			File:     name,
			Presence: sample.Presence,
			Boxes:    sample.Boxes,
		})
	}

	data, err := json.MarshalIndent(labels, "", "  ")
	if err != nil {
		return fmt.Errorf("encode labels: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, labelsFileName), data, 0o644); err != nil {
		return fmt.Errorf("write labels: %w", err)
	}
	return nil
}

// Load reads a dataset previously written by Save. Sample order follows the
// labels sidecar, so a round trip preserves index alignment.
func Load(dir string) (*Set, error) {
	data, err := os.ReadFile(filepath.Join(dir, labelsFileName))
	if err != nil {
		return nil, fmt.Errorf("read labels: %w", err)
	}
	var labels labelsFile
	if err := json.Unmarshal(data, &labels); err != nil {
		return nil, fmt.Errorf("parse labels: %w", err)
	}

	cfg := synth.Config{
		CanvasSize: labels.CanvasSize,
		ShapeSize:  labels.ShapeSize,
		Margin:     labels.Margin,
	}
	for _, rec := range labels.Classes {
		fill, err := synth.ParseHexColor(rec.Color)
		if err != nil {
			return nil, fmt.Errorf("class %s: %w", rec.Name, err)
		}
		cfg.Classes = append(cfg.Classes, synth.ClassSpec{
			Name:  rec.Name,
			Shape: synth.Kind(rec.Shape),
			Color: fill,
		})
	}

	set := &Set{Config: cfg}
	for _, rec := range labels.Samples {
		img, err := imgio.Open(filepath.Join(dir, rec.File))
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", rec.File, err)
		}
		set.Samples = append(set.Samples, synth.Sample{
			Image:    imaging.Clone(img),
			Presence: rec.Presence,
			Boxes:    rec.Boxes,
		})
	}
	return set, nil
}

// Discover returns the sorted sample image paths beneath dir. It only
// matches files named by Save.
func Discover(dir string) ([]string, error) {
	entries := make([]string, 0)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if sampleRegexp.MatchString(d.Name()) {
			entries = append(entries, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discover samples: %w", err)
	}
	sort.Strings(entries)
	return entries, nil
}
