// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package reply

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/chatbot-tui/internal/model"
)

// =============================================================================
// PLAIN
// =============================================================================

func TestFormat_PlainRoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"hello",
		"  leading and trailing  ",
		"line one\n\n  indented line two\n",
		"1. looks like a list\n2. but is plain",
		"\ttabs\tand\r\nCRLF",
	}

	for _, in := range inputs {
		first := Format(in, model.FormatPlain)
		second := Format(first.Text(), model.FormatPlain)

		assert.Equal(t, in, first.Text())
		assert.Equal(t, in, second.Text())
		require.Len(t, second.Items, 1)
		assert.Equal(t, ItemParagraph, second.Items[0].Kind)
	}
}

func TestFormat_UnknownTagIsPlain(t *testing.T) {
	tree := FormatTag("1. a\n2. b", "table")

	assert.Equal(t, model.FormatPlain, tree.Format)
	assert.Equal(t, "1. a\n2. b", tree.Text())
}

func TestFormat_OutOfRangeFormatIsPlain(t *testing.T) {
	tree := Format("x", model.Format(42))
	assert.Equal(t, model.FormatPlain, tree.Format)
}

// =============================================================================
// LIST
// =============================================================================

func TestFormat_ListStripsEnumerators(t *testing.T) {
	tree := Format("1. a\n2. b\n", model.FormatList)

	assert.Equal(t, []string{"a", "b"}, tree.Texts())
	assert.Equal(t, []ItemKind{ItemListEntry, ItemListEntry}, tree.Kinds())
	assert.Equal(t, 1, tree.Items[0].Index)
	assert.Equal(t, 2, tree.Items[1].Index)
}

func TestFormat_List(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"blank lines dropped", "first\n\n   \nsecond", []string{"first", "second"}},
		{"no enumerators", "alpha\nbeta", []string{"alpha", "beta"}},
		{"enumerator without space", "1.alpha\n10.beta", []string{"alpha", "beta"}},
		{"order kept", "3. c\n1. a\n2. b", []string{"c", "a", "b"}},
		{"crlf", "1. a\r\n2. b\r\n", []string{"a", "b"}},
		{"only first enumerator stripped", "1. 2. nested", []string{"2. nested"}},
		{"empty", "", nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tree := Format(tc.input, model.FormatList)
			if tc.want == nil {
				assert.Empty(t, tree.Items)
				return
			}
			assert.Equal(t, tc.want, tree.Texts())
		})
	}
}

func TestFormat_ListText(t *testing.T) {
	tree := Format("- keep dash\n2. two", model.FormatList)
	assert.Equal(t, "1. - keep dash\n2. two", tree.Text())
}

// =============================================================================
// MATH STEPS
// =============================================================================

func TestFormat_MathSteps(t *testing.T) {
	tree := Format("Step 1: do X\n\nresult", model.FormatMathSteps)

	assert.Equal(t, []ItemKind{ItemStepHeader, ItemSpacer, ItemLine}, tree.Kinds())
	assert.Equal(t, "Step 1: do X", tree.Items[0].Text)
	assert.Equal(t, "result", tree.Items[2].Text)
}

func TestFormat_MathStepsCaseInsensitive(t *testing.T) {
	tree := Format("STEP 2: simplify\nstep 10: done", model.FormatMathSteps)
	assert.Equal(t, []ItemKind{ItemStepHeader, ItemStepHeader}, tree.Kinds())
}

func TestFormat_MathStepsNotAHeader(t *testing.T) {
	tree := Format("Steps are:\nStep one: no digits\nx = 2", model.FormatMathSteps)
	assert.Equal(t, []ItemKind{ItemLine, ItemLine, ItemLine}, tree.Kinds())
}

func TestFormat_MathStepsTrailingNewline(t *testing.T) {
	tree := Format("Step 1: a\n", model.FormatMathSteps)
	assert.Equal(t, []ItemKind{ItemStepHeader}, tree.Kinds())
}

func TestFormat_MathStepsEmpty(t *testing.T) {
	tree := Format("", model.FormatMathSteps)
	assert.Empty(t, tree.Items)
	assert.Equal(t, "", tree.Text())
}

func TestFormat_MathStepsText(t *testing.T) {
	in := "Step 1: x + 1 = 3\n\nx = 2"
	assert.Equal(t, in, Format(in, model.FormatMathSteps).Text())
}

// =============================================================================
// MESSAGES
// =============================================================================

func TestFormatMessage_UserIsAlwaysPlain(t *testing.T) {
	msg := model.NewUserMessage("1. a\n2. b")
	msg.Format = model.FormatList

	tree := FormatMessage(msg)
	assert.Equal(t, model.FormatPlain, tree.Format)
}

func TestFormatMessage_BotUsesFormat(t *testing.T) {
	tree := FormatMessage(model.NewBotMessage("1. a\n2. b", model.FormatList))
	assert.Equal(t, []string{"a", "b"}, tree.Texts())
}

func TestItemKind_String(t *testing.T) {
	assert.Equal(t, "step-header", ItemStepHeader.String())
	assert.Equal(t, "unknown", ItemKind(99).String())
}
