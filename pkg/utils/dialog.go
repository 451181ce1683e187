package utils

import "github.com/sqweek/dialog"

// AskForFile opens a native file picker.
func AskForFile(title, startingDir string) (string, error) {
	return dialog.File().SetStartDir(startingDir).Title(title).Load()
}
