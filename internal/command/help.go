package command

// Help lists example phrases a user can speak.
type Help struct {
	BasicCommands    []string `json:"basic_commands"`
	AdvancedCommands []string `json:"advanced_commands"`
}

// Examples returns the static help lists.
func Examples() Help {
	return Help{
		BasicCommands: []string{
			"Create a file example.txt",
			"Delete file example.txt",
			"Rename file from old.txt to new.txt",
			"Move file from source.txt to destination.txt",
			"Create a folder Projects",
			"Delete folder Projects",
			"Navigate to [path]",
		},
		AdvancedCommands: []string{
			"Increase volume",
			"Decrease volume",
			"Set volume to 50 percent",
			"Increase brightness",
			"Decrease brightness",
			"Set brightness to 70 percent",
			"Create a file report.txt in D:\\Work",
		},
	}
}
