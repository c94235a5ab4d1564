// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/mdcontainer/markdown"
	"gopkg.in/yaml.v3"
)

// An element describes how one directive name renders.
type element struct {
	Tag     string            `yaml:"tag"`
	Attrs   map[string]string `yaml:"attrs"`
	Require string            `yaml:"require"`
	Label   string            `yaml:"label"`
}

func loadHandlers(file string) (map[string]markdown.Handler, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	h, err := parseHandlers(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	return h, nil
}

func parseHandlers(data []byte) (map[string]markdown.Handler, error) {
	var table map[string]element
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("parsing handlers: %w", err)
	}
	handlers := make(map[string]markdown.Handler)
	for name, e := range table {
		if e.Tag == "" {
			return nil, fmt.Errorf("handler %q: missing tag", name)
		}
		handlers[name] = e.handler()
	}
	return handlers, nil
}

func (e element) handler() markdown.Handler {
	// Fixed attributes print sorted, ahead of the directive's own.
	var fixed []string
	for k := range e.Attrs {
		fixed = append(fixed, k)
	}
	sort.Strings(fixed)

	return func(w *markdown.HTMLWriter, c *markdown.Container) bool {
		if e.Require != "" {
			if _, ok := c.Attributes.Get(e.Require); !ok {
				return false
			}
		}
		var b strings.Builder
		b.WriteString("<" + e.Tag)
		for _, k := range fixed {
			b.WriteString(" " + w.Encode(k) + `="` + w.Encode(e.Attrs[k]) + `"`)
		}
		for _, a := range c.Attributes {
			b.WriteString(" " + w.Encode(a.Name) + `="` + w.Encode(a.Value) + `"`)
		}
		b.WriteString(">")
		w.Tag(b.String())
		if e.Label != "" && c.HasLabel {
			w.Tag("<" + e.Label + ">")
			w.Raw(c.Label)
			w.Tag("</" + e.Label + ">")
		}
		if c.Content != "" {
			w.LineEndingIfNeeded()
			w.Raw(c.Content)
			w.LineEndingIfNeeded()
		}
		w.Tag("</" + e.Tag + ">")
		return true
	}
}
