package tui

// Color constants for the rtracker timer theme
const (
	ColorBorder = "#3A3F55" // Table borders

	// Text Colors
	ColorPrimaryText   = "#E6EAF2" // Task name, labels
	ColorSecondaryText = "#B1B8C7" // Start time, project
	ColorDisabledText  = "#6D7383" // Missing values
	ColorHelpText      = "240"     // Dark grey for help text

	// Accent Colors (Purple theme)
	ColorAccentMain   = "#7C3AED" // Header, borders
	ColorAccentBright = "#A78BFA" // Clock digits

	// State Colors
	ColorSuccess = "#22C55E" // Running entries in reports
)
