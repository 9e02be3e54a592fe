package network

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/railpath/pkg/errors"
)

// =============================================================================
// File Format
// =============================================================================

// File is the serialized form of a [Network], shared by JSON and TOML.
type File struct {
	Name   string `json:"name" toml:"name"`
	Title  string `json:"title,omitempty" toml:"title,omitempty"`
	Cities []City `json:"cities" toml:"cities"`
	Links  []Link `json:"links" toml:"links"`
}

// City is a serialized node with its display position.
type City struct {
	ID string `json:"id" toml:"id"`
	X  int    `json:"x" toml:"x"`
	Y  int    `json:"y" toml:"y"`
}

// Link is a serialized connection. It runs both ways unless OneWay is set.
type Link struct {
	From   string `json:"from" toml:"from"`
	To     string `json:"to" toml:"to"`
	Km     int    `json:"km" toml:"km"`
	OneWay bool   `json:"oneway,omitempty" toml:"oneway,omitempty"`
}

// ToFile converts n to its serialized form. Cities are sorted by ID.
// Connections declared in both directions with the same weight are listed
// once; any other edge is written as a one-way link, so FromFile rebuilds
// exactly the same graph.
func ToFile(n Network) File {
	out := File{Name: n.Name, Title: n.Title}
	for _, id := range n.Cities() {
		p := n.Coords[id]
		out.Cities = append(out.Cities, City{ID: id, X: p.X, Y: p.Y})
	}
	for _, from := range n.Graph.Nodes() {
		for _, e := range n.Graph.Neighbors(from) {
			if w, ok := n.Graph.Weight(e.To, e.From); ok && w == e.Weight {
				if e.From <= e.To {
					out.Links = append(out.Links, Link{From: e.From, To: e.To, Km: e.Weight})
				}
				continue
			}
			out.Links = append(out.Links, Link{From: e.From, To: e.To, Km: e.Weight, OneWay: true})
		}
	}
	return out
}

// FromFile builds a network from its serialized form.
// Links expand to both directions unless marked one-way. It rejects
// duplicate cities, links to unknown cities and conflicting duplicate
// links, then runs [Network.Validate].
func FromFile(f File) (Network, error) {
	if err := errors.ValidateNetworkName(f.Name); err != nil {
		return Network{}, err
	}

	n := Network{
		Name:   f.Name,
		Title:  f.Title,
		Graph:  make(Graph, len(f.Cities)),
		Coords: make(map[string]Point, len(f.Cities)),
	}

	for _, c := range f.Cities {
		if err := errors.ValidateNodeID(c.ID); err != nil {
			return Network{}, errors.Wrap(errors.ErrCodeInvalidGraph, err, "city %q", c.ID)
		}
		if n.Graph.HasNode(c.ID) {
			return Network{}, errors.New(errors.ErrCodeInvalidGraph, "duplicate city %q", c.ID)
		}
		n.Graph[c.ID] = map[string]int{}
		n.Coords[c.ID] = Point{X: c.X, Y: c.Y}
	}

	for _, l := range f.Links {
		for _, id := range []string{l.From, l.To} {
			if !n.Graph.HasNode(id) {
				return Network{}, errors.New(errors.ErrCodeInvalidGraph, "link %s→%s references unknown city %q", l.From, l.To, id)
			}
		}
		if err := setLink(n.Graph, l.From, l.To, l.Km); err != nil {
			return Network{}, err
		}
		if !l.OneWay {
			if err := setLink(n.Graph, l.To, l.From, l.Km); err != nil {
				return Network{}, err
			}
		}
	}

	if err := n.Validate(); err != nil {
		return Network{}, err
	}
	return n, nil
}

// setLink records from→to, rejecting a second declaration with another
// weight.
func setLink(g Graph, from, to string, km int) error {
	if w, ok := g.Weight(from, to); ok && w != km {
		return errors.New(errors.ErrCodeInvalidGraph, "link %s→%s declared twice (%d km and %d km)", from, to, w, km)
	}
	g[from][to] = km
	return nil
}

// =============================================================================
// Reading
// =============================================================================

// Load reads a network file, choosing the decoder from the extension
// (.json or .toml).
func Load(path string) (Network, error) {
	if err := errors.ValidatePath(path); err != nil {
		return Network{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Network{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "network file %s not found", path)
		}
		return Network{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return ReadJSON(f)
	case ".toml":
		return ReadTOML(f)
	default:
		return Network{}, errors.New(errors.ErrCodeInvalidFormat, "unsupported network file extension %q (want .json or .toml)", ext)
	}
}

// ReadJSON decodes a JSON network file.
func ReadJSON(r io.Reader) (Network, error) {
	var f File
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return Network{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode network JSON")
	}
	return FromFile(f)
}

// ReadTOML decodes a TOML network file.
func ReadTOML(r io.Reader) (Network, error) {
	var f File
	md, err := toml.NewDecoder(r).Decode(&f)
	if err != nil {
		return Network{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode network TOML")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Network{}, errors.New(errors.ErrCodeInvalidFormat, "unknown network TOML keys: %v", undecoded)
	}
	return FromFile(f)
}

// =============================================================================
// Writing
// =============================================================================

// WriteJSON writes n as indented JSON.
func WriteJSON(n Network, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ToFile(n)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteTOML writes n as TOML.
func WriteTOML(n Network, w io.Writer) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(ToFile(n)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}
