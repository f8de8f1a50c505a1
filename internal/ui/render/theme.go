package render

import "github.com/gdamore/tcell/v2"

// ColorTheme defines application colors.
type ColorTheme struct {
	Background   tcell.Color
	Foreground   tcell.Color
	DirectoryFg  tcell.Color
	AudioFg      tcell.Color
	ActiveBg     tcell.Color
	ActiveFg     tcell.Color
	SelectionBg  tcell.Color
	SelectionFg  tcell.Color
	WaveformFg   tcell.Color
	WaveformDim  tcell.Color
	HeaderBg     tcell.Color
	HeaderFg     tcell.Color
	ConnectedFg  tcell.Color
	DisconnectFg tcell.Color
	MetaFg       tcell.Color
	ErrorFg      tcell.Color
}

// GetColorTheme returns the default color scheme.
func GetColorTheme() ColorTheme {
	return ColorTheme{
		Background:   tcell.ColorDefault,
		Foreground:   tcell.ColorDefault,
		DirectoryFg:  tcell.Color33,
		AudioFg:      tcell.ColorDefault,
		ActiveBg:     tcell.Color33,
		ActiveFg:     tcell.ColorWhite,
		SelectionBg:  tcell.Color24,
		SelectionFg:  tcell.ColorWhite,
		WaveformFg:   tcell.Color44,
		WaveformDim:  tcell.Color240,
		HeaderBg:     tcell.ColorDefault,
		HeaderFg:     tcell.ColorDefault,
		ConnectedFg:  tcell.Color40,
		DisconnectFg: tcell.Color196,
		MetaFg:       tcell.Color245,
		ErrorFg:      tcell.Color196,
	}
}
