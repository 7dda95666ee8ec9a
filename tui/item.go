package tui

import (
	"fmt"

	"github.com/vidloop/vidloop/icon"
	"github.com/vidloop/vidloop/selector"
)

// listItem is a selection menu entry.
type listItem struct {
	choice      selector.Choice
	description string
}

var choiceIcons = map[selector.Choice]icon.Icon{
	selector.ChoiceDefault:    icon.Clip,
	selector.ChoicePick:       icon.Play,
	selector.ChoiceClearCache: icon.Trash,
	selector.ChoiceCancel:     icon.Fail,
}

func (t *listItem) Title() string {
	if glyph := icon.Get(choiceIcons[t.choice]); glyph != "" {
		return fmt.Sprintf("%s %s", glyph, t.choice)
	}
	return t.choice.String()
}

func (t *listItem) Description() string {
	return t.description
}

func (t *listItem) FilterValue() string {
	return t.choice.String()
}

// menuItems builds the menu in display order. root is where picking starts.
func menuItems(root string) []*listItem {
	descriptions := map[selector.Choice]string{
		selector.ChoiceDefault:    "Loop the default clip, keep the saved one",
		selector.ChoicePick:       "Choose a video from " + root,
		selector.ChoiceClearCache: "Forget the saved clip and loop the default",
		selector.ChoiceCancel:     "Back to playback",
	}

	items := make([]*listItem, 0, len(selector.Choices()))
	for _, c := range selector.Choices() {
		items = append(items, &listItem{choice: c, description: descriptions[c]})
	}
	return items
}
