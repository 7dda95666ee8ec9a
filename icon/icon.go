// Package icon renders UI symbols in the configured variant.
//
// Icons can be displayed as emoji, nerd-font glyphs, plain ASCII, kaomoji,
// or Unicode squares depending on user preference.
package icon

import (
	"github.com/spf13/viper"
	"github.com/vidloop/vidloop/key"
)

const (
	emoji   = "emoji"
	nerd    = "nerd"
	plain   = "plain"
	kaomoji = "kaomoji"
	squares = "squares"
)

// AvailableVariants returns all registered icon style identifiers.
func AvailableVariants() []string {
	return []string{emoji, nerd, plain, kaomoji, squares}
}

// Icon identifies a UI symbol.
type Icon int

const (
	Success Icon = iota
	Fail
	Progress
	Play
	Clip
	Menu
	Trash
	Warn
)

type iconDef struct {
	emoji   string
	nerd    string
	plain   string
	kaomoji string
	squares string
}

func (d *iconDef) get() string {
	switch viper.GetString(key.IconsVariant) {
	case emoji:
		return d.emoji
	case nerd:
		return d.nerd
	case plain:
		return d.plain
	case kaomoji:
		return d.kaomoji
	case squares:
		return d.squares
	default:
		return ""
	}
}

var icons = map[Icon]*iconDef{
	Success:  {emoji: "🎉", nerd: "", plain: "✓", kaomoji: "(ᵔ◡ᵔ)", squares: "🟩"},
	Fail:     {emoji: "💥", nerd: "", plain: "✖", kaomoji: "(×_×)", squares: "🟥"},
	Progress: {emoji: "⏳", nerd: "", plain: "…", kaomoji: "(・_・ヾ", squares: "🟦"},
	Play:     {emoji: "▶️", nerd: "", plain: ">", kaomoji: "(•̀ᴗ•́)و", squares: "🟪"},
	Clip:     {emoji: "🎞️", nerd: "", plain: "#", kaomoji: "[▣_▣]", squares: "🟧"},
	Menu:     {emoji: "🔑", nerd: "", plain: "≡", kaomoji: "(¬‿¬)", squares: "⬛"},
	Trash:    {emoji: "🗑️", nerd: "", plain: "x", kaomoji: "(ノಠ益ಠ)ノ", squares: "⬜"},
	Warn:     {emoji: "⚠️", nerd: "", plain: "!", kaomoji: "(°ロ°)", squares: "🟨"},
}

// Get returns the rendered string for an icon in the configured variant.
func Get(i Icon) string {
	def, ok := icons[i]
	if !ok {
		return ""
	}
	return def.get()
}
