// Package catalog holds the immutable area → topics classification table
// offered to exam authors.
package catalog

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownArea  = errors.New("unknown classification area")
	ErrUnknownTopic = errors.New("topic does not belong to area")
)

type Area struct {
	Name   string   `json:"area" yaml:"area"`
	Topics []string `json:"topics" yaml:"topics"`
}

// Catalog is read-only after New; methods never hand out internal slices.
type Catalog struct {
	areas []Area
	index map[string]int
}

func New(areas []Area) (*Catalog, error) {
	c := &Catalog{index: map[string]int{}}
	for _, a := range areas {
		name := strings.TrimSpace(a.Name)
		if name == "" {
			return nil, errors.New("catalog: area name required")
		}
		if _, dup := c.index[name]; dup {
			return nil, fmt.Errorf("catalog: duplicate area %q", name)
		}
		topics := make([]string, 0, len(a.Topics))
		for _, t := range a.Topics {
			if t = strings.TrimSpace(t); t != "" {
				topics = append(topics, t)
			}
		}
		c.index[name] = len(c.areas)
		c.areas = append(c.areas, Area{Name: name, Topics: topics})
	}
	return c, nil
}

// Empty is a catalog with no areas.
func Empty() *Catalog { return &Catalog{index: map[string]int{}} }

func (c *Catalog) Areas() []Area {
	out := make([]Area, len(c.areas))
	for i, a := range c.areas {
		out[i] = Area{Name: a.Name, Topics: append([]string(nil), a.Topics...)}
	}
	return out
}

func (c *Catalog) Topics(area string) ([]string, bool) {
	i, ok := c.index[area]
	if !ok {
		return nil, false
	}
	return append([]string(nil), c.areas[i].Topics...), true
}

func (c *Catalog) Len() int { return len(c.areas) }

// Check verifies that topic belongs to area. An empty topic is allowed.
func (c *Catalog) Check(area, topic string) error {
	topics, ok := c.Topics(area)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownArea, area)
	}
	if topic == "" {
		return nil
	}
	for _, t := range topics {
		if t == topic {
			return nil
		}
	}
	return fmt.Errorf("%w: %q not in %q", ErrUnknownTopic, topic, area)
}

// Selection is a single-valued pick from the catalog: choosing an area
// clears any topic chosen under another area.
type Selection struct {
	Area  string `json:"area" yaml:"area"`
	Topic string `json:"topic,omitempty" yaml:"topic,omitempty"`
}

func (s Selection) IsZero() bool { return s.Area == "" && s.Topic == "" }

func (c *Catalog) SelectArea(s Selection, area string) (Selection, error) {
	if _, ok := c.index[area]; !ok {
		return s, fmt.Errorf("%w: %q", ErrUnknownArea, area)
	}
	if s.Area != area {
		return Selection{Area: area}, nil
	}
	return s, nil
}

func (c *Catalog) SelectTopic(s Selection, topic string) (Selection, error) {
	if err := c.Check(s.Area, topic); err != nil {
		return s, err
	}
	s.Topic = topic
	return s, nil
}
