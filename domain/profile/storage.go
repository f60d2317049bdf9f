package profile

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SchemaVersion is the on-disk profile format version.
const SchemaVersion = 1

// Store persists profiles as one JSON file per profile under a directory.
type Store struct {
	dir string
}

// NewStore creates a profile store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// jsonProfile is the on-disk JSON structure.
type jsonProfile struct {
	SchemaVersion int                     `json:"schema_version"`
	Name          string                  `json:"name"`
	Favorite      bool                    `json:"favorite"`
	ModifierKeys  map[string]jsonModifier `json:"modification_keys,omitempty"`
	Events        []jsonEvent             `json:"event_list"`
}

type jsonModifier struct {
	Enabled bool   `json:"enabled"`
	Value   string `json:"value"`
	Pass    bool   `json:"pass"`
}

type jsonEvent struct {
	EventName       string          `json:"event_name"`
	UseEvent        bool            `json:"use_event"`
	LatestPosition  []int           `json:"latest_position,omitempty"`
	ClickedPosition []int           `json:"clicked_position,omitempty"`
	RefPixelValue   []int           `json:"ref_pixel_value,omitempty"`
	KeyToEnter      string          `json:"key_to_enter,omitempty"`
	PressDurationMS *float64        `json:"press_duration_ms,omitempty"`
	RandomizationMS *float64        `json:"randomization_ms,omitempty"`
	Independent     bool            `json:"independent_thread"`
	MatchMode       string          `json:"match_mode"`
	InvertMatch     bool            `json:"invert_match"`
	RegionSize      []int           `json:"region_size,omitempty"`
	ExecuteAction   bool            `json:"execute_action"`
	GroupID         string          `json:"group_id,omitempty"`
	Priority        int             `json:"priority"`
	Conditions      map[string]bool `json:"conditions,omitempty"`
	HeldScreenshot  *jsonImage      `json:"held_screenshot,omitempty"`
}

// jsonImage carries the reference sub-image as base64 PNG. PNG is
// lossless, which matters for exact-color matching reproducibility.
type jsonImage struct {
	Format  string `json:"format"`
	DataB64 string `json:"data_b64"`
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

// Save writes the profile to disk, creating the store directory as
// needed.
func (s *Store) Save(p *Profile) error {
	if p.Name == "" {
		return fmt.Errorf("profile has no name")
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create profile directory: %w", err)
	}

	jp, err := toJSON(p)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(jp, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode profile %s: %w", p.Name, err)
	}
	if err := os.WriteFile(s.path(p.Name), data, 0644); err != nil {
		return fmt.Errorf("failed to write profile %s: %w", p.Name, err)
	}
	return nil
}

// Load reads one profile by name.
func (s *Store) Load(name string) (*Profile, error) {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		return nil, fmt.Errorf("failed to read profile %s: %w", name, err)
	}

	var jp jsonProfile
	if err := json.Unmarshal(data, &jp); err != nil {
		return nil, fmt.Errorf("failed to parse profile %s: %w", name, err)
	}
	if jp.SchemaVersion > SchemaVersion {
		return nil, fmt.Errorf("profile %s has unsupported schema version %d", name, jp.SchemaVersion)
	}

	p, err := fromJSON(&jp)
	if err != nil {
		return nil, fmt.Errorf("failed to decode profile %s: %w", name, err)
	}
	if p.Name == "" {
		p.Name = name
	}
	return p, nil
}

// Delete removes a profile file.
func (s *Store) Delete(name string) error {
	if err := os.Remove(s.path(name)); err != nil {
		return fmt.Errorf("failed to delete profile %s: %w", name, err)
	}
	return nil
}

// Rename loads a profile, saves it under the new name and deletes the
// old file.
func (s *Store) Rename(oldName, newName string) error {
	p, err := s.Load(oldName)
	if err != nil {
		return err
	}
	p.Name = newName
	if err := s.Save(p); err != nil {
		return err
	}
	return s.Delete(oldName)
}

// Copy duplicates a profile under a new name.
func (s *Store) Copy(name, copyName string) error {
	p, err := s.Load(name)
	if err != nil {
		return err
	}
	p.Name = copyName
	p.Favorite = false
	return s.Save(p)
}

// List returns the names of all stored profiles, sorted.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read profile directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".json"))
	}
	sort.Strings(names)
	return names, nil
}

func toJSON(p *Profile) (*jsonProfile, error) {
	jp := &jsonProfile{
		SchemaVersion: SchemaVersion,
		Name:          p.Name,
		Favorite:      p.Favorite,
		Events:        make([]jsonEvent, 0, len(p.Events)),
	}
	if len(p.ModifierKeys) > 0 {
		jp.ModifierKeys = make(map[string]jsonModifier, len(p.ModifierKeys))
		for k, v := range p.ModifierKeys {
			jp.ModifierKeys[k] = jsonModifier{Enabled: v.Enabled, Value: v.Value, Pass: v.Pass}
		}
	}

	for i := range p.Events {
		je, err := eventToJSON(&p.Events[i])
		if err != nil {
			return nil, err
		}
		jp.Events = append(jp.Events, *je)
	}
	return jp, nil
}

func eventToJSON(e *Event) (*jsonEvent, error) {
	je := &jsonEvent{
		EventName:       e.Name,
		UseEvent:        e.Enabled,
		LatestPosition:  []int{e.LatestPosition.X, e.LatestPosition.Y},
		ClickedPosition: []int{e.ClickedPosition.X, e.ClickedPosition.Y},
		KeyToEnter:      e.Key,
		PressDurationMS: e.PressDurationMS,
		RandomizationMS: e.RandomizationMS,
		Independent:     e.Independent,
		MatchMode:       string(e.MatchMode),
		InvertMatch:     e.Invert,
		ExecuteAction:   e.Execute,
		GroupID:         e.Group,
		Priority:        e.Priority,
		Conditions:      e.Conditions,
	}
	for _, c := range e.RefPixel {
		je.RefPixelValue = append(je.RefPixelValue, int(c))
	}
	if e.RegionW > 0 || e.RegionH > 0 {
		je.RegionSize = []int{e.RegionW, e.RegionH}
	}
	if e.HeldImage != nil {
		var buf bytes.Buffer
		if err := png.Encode(&buf, e.HeldImage); err != nil {
			return nil, fmt.Errorf("failed to encode reference image for %s: %w", e.Name, err)
		}
		je.HeldScreenshot = &jsonImage{
			Format:  "png",
			DataB64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		}
	}
	return je, nil
}

func fromJSON(jp *jsonProfile) (*Profile, error) {
	p := &Profile{
		Name:     jp.Name,
		Favorite: jp.Favorite,
		Events:   make([]Event, 0, len(jp.Events)),
	}
	if len(jp.ModifierKeys) > 0 {
		p.ModifierKeys = make(map[string]ModifierRule, len(jp.ModifierKeys))
		for k, v := range jp.ModifierKeys {
			p.ModifierKeys[k] = ModifierRule{Enabled: v.Enabled, Value: v.Value, Pass: v.Pass}
		}
	}

	for i := range jp.Events {
		e, err := eventFromJSON(&jp.Events[i])
		if err != nil {
			return nil, err
		}
		p.Events = append(p.Events, *e)
	}
	return p, nil
}

func eventFromJSON(je *jsonEvent) (*Event, error) {
	e := &Event{
		Name:            je.EventName,
		Enabled:         je.UseEvent,
		LatestPosition:  toPoint(je.LatestPosition),
		ClickedPosition: toPoint(je.ClickedPosition),
		Key:             je.KeyToEnter,
		PressDurationMS: je.PressDurationMS,
		RandomizationMS: je.RandomizationMS,
		Independent:     je.Independent,
		MatchMode:       MatchMode(je.MatchMode),
		Invert:          je.InvertMatch,
		Execute:         je.ExecuteAction,
		Group:           je.GroupID,
		Priority:        je.Priority,
		Conditions:      je.Conditions,
	}
	if e.MatchMode == "" {
		e.MatchMode = MatchModePixel
	}
	for _, c := range je.RefPixelValue {
		e.RefPixel = append(e.RefPixel, uint8(c))
	}
	if len(je.RegionSize) >= 2 {
		e.RegionW, e.RegionH = je.RegionSize[0], je.RegionSize[1]
	}
	if je.HeldScreenshot != nil {
		raw, err := base64.StdEncoding.DecodeString(je.HeldScreenshot.DataB64)
		if err != nil {
			return nil, fmt.Errorf("failed to decode reference image for %s: %w", je.EventName, err)
		}
		img, err := png.Decode(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("failed to parse reference image for %s: %w", je.EventName, err)
		}
		e.HeldImage = img
	}
	return e, nil
}

func toPoint(xy []int) image.Point {
	if len(xy) < 2 {
		return image.Point{}
	}
	return image.Point{X: xy[0], Y: xy[1]}
}
