// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package reply turns the raw text of a bot reply into a render tree.
//
// Format is total: every input produces a tree, and text that does not fit
// the requested structure is kept as literal lines.
//
//	tree := reply.Format("1. mix\n2. bake", model.FormatList)
//	for _, item := range tree.Items {
//	    fmt.Println(item.Index, item.Text)
//	}
package reply

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/jeranaias/chatbot-tui/internal/model"
)

// ItemKind identifies what a tree item represents.
type ItemKind int

const (
	// ItemParagraph is a newline-preserving block of text.
	ItemParagraph ItemKind = iota
	// ItemListEntry is one entry of an ordered list.
	ItemListEntry
	// ItemStepHeader is a "Step N:" line in a worked solution.
	ItemStepHeader
	// ItemLine is an ordinary line in a worked solution.
	ItemLine
	// ItemSpacer is a blank line in a worked solution.
	ItemSpacer
)

// String returns a short name for the kind, used in logs and tests.
func (k ItemKind) String() string {
	switch k {
	case ItemParagraph:
		return "paragraph"
	case ItemListEntry:
		return "list-entry"
	case ItemStepHeader:
		return "step-header"
	case ItemLine:
		return "line"
	case ItemSpacer:
		return "spacer"
	default:
		return "unknown"
	}
}

// Item is one renderable element of a Tree.
type Item struct {
	Kind ItemKind
	Text string
	// Index is the 1-based position of a list entry; zero for other kinds.
	Index int
}

// Tree is the structured form of a reply, in display order.
type Tree struct {
	Format model.Format
	Items  []Item
}

var (
	enumeratorPattern = regexp.MustCompile(`^\d+\.\s*`)
	stepPattern       = regexp.MustCompile(`(?i)^step \d+:`)
)

// Format builds the render tree for text according to format.
// Unknown formats render as plain text.
func Format(text string, format model.Format) Tree {
	switch format {
	case model.FormatList:
		return formatList(text)
	case model.FormatMathSteps:
		return formatMathSteps(text)
	default:
		return formatPlain(text)
	}
}

// FormatTag is Format for a raw backend tag.
func FormatTag(text, tag string) Tree {
	return Format(text, model.ParseFormat(tag))
}

// FormatMessage builds the tree for a message. User messages are always plain.
func FormatMessage(msg model.Message) Tree {
	if msg.IsUser() {
		return formatPlain(msg.Text)
	}
	return Format(msg.Text, msg.Format)
}

func formatPlain(text string) Tree {
	return Tree{
		Format: model.FormatPlain,
		Items:  []Item{{Kind: ItemParagraph, Text: text}},
	}
}

func formatList(text string) Tree {
	tree := Tree{Format: model.FormatList}
	for _, line := range splitLines(text) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		entry := enumeratorPattern.ReplaceAllString(line, "")
		tree.Items = append(tree.Items, Item{
			Kind:  ItemListEntry,
			Text:  entry,
			Index: len(tree.Items) + 1,
		})
	}
	return tree
}

func formatMathSteps(text string) Tree {
	tree := Tree{Format: model.FormatMathSteps}
	// A trailing newline would otherwise end every reply with a spacer
	text = strings.TrimRight(text, "\r\n")
	if text == "" {
		return tree
	}
	for _, line := range splitLines(text) {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			tree.Items = append(tree.Items, Item{Kind: ItemSpacer})
		case stepPattern.MatchString(trimmed):
			tree.Items = append(tree.Items, Item{Kind: ItemStepHeader, Text: trimmed})
		default:
			tree.Items = append(tree.Items, Item{Kind: ItemLine, Text: line})
		}
	}
	return tree
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(text, "\n")
}

// Text returns the visible text of the tree with structure flattened to lines.
// For a plain tree it is exactly the input text.
func (t Tree) Text() string {
	if t.Format == model.FormatPlain && len(t.Items) == 1 && t.Items[0].Kind == ItemParagraph {
		return t.Items[0].Text
	}
	lines := make([]string, 0, len(t.Items))
	for _, item := range t.Items {
		switch item.Kind {
		case ItemListEntry:
			lines = append(lines, strconv.Itoa(item.Index)+". "+item.Text)
		case ItemSpacer:
			lines = append(lines, "")
		default:
			lines = append(lines, item.Text)
		}
	}
	return strings.Join(lines, "\n")
}

// Texts returns the text of every item, in order.
func (t Tree) Texts() []string {
	out := make([]string, len(t.Items))
	for i, item := range t.Items {
		out[i] = item.Text
	}
	return out
}

// Kinds returns the kind of every item, in order.
func (t Tree) Kinds() []ItemKind {
	out := make([]ItemKind, len(t.Items))
	for i, item := range t.Items {
		out[i] = item.Kind
	}
	return out
}
