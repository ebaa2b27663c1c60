package ui

import "time"

// Layout constants for panel sizing
const (
	// HeaderHeight is the height of the header in lines
	HeaderHeight = 1

	// FooterHeight is the height of the footer in lines
	FooterHeight = 1

	// BorderSize is the total border width (1 on each side)
	BorderSize = 2

	// SidebarWidthRatio is the denominator for sidebar width (1/3 of total width)
	SidebarWidthRatio = 3

	// MinSidebarWidth and MaxSidebarWidth bound the session list
	MinSidebarWidth = 18
	MaxSidebarWidth = 42

	// TextareaHeight is the number of lines for the chat input textarea
	TextareaHeight = 3

	// TextareaBorderHeight is the border size around the textarea
	TextareaBorderHeight = 2

	// InputPaddingWidth is the horizontal padding inside the input area
	InputPaddingWidth = 2

	// InputTotalHeight is the total height of the input area (textarea + borders)
	InputTotalHeight = TextareaHeight + TextareaBorderHeight

	// DefaultWrapWidth is used when the viewport width is not known yet
	DefaultWrapWidth = 80

	// MinTerminalWidth and MinTerminalHeight clamp tiny terminals
	MinTerminalWidth  = 40
	MinTerminalHeight = 10

	// BubbleMaxWidthPercent caps a message bubble relative to the thread width
	BubbleMaxWidthPercent = 80

	// DraftPreviewMaxLines bounds the draft preview shown inline
	DraftPreviewMaxLines = 12
)

// Input limits
const (
	// InputCharLimit is the maximum length of a chat message
	InputCharLimit = 4000
)

// Modal dimensions
const (
	ModalWidth          = 60
	ModalInputWidth     = 50
	ModalInputCharLimit = 512
	HelpModalMaxVisible = 14
)

// Flash timing
const (
	FlashDuration = 3 * time.Second
)

// Fixed texts shown in the thread and sidebar.
const (
	WelcomeMessage = "Namaste! I'm your RTI assistant. Ask me anything about the Right to Information Act, or ask me to draft an RTI application for you."

	// FailureMessage is shown when the backend answers with a non-success status.
	FailureMessage = "Sorry, something went wrong. Please try again."

	// ConnectionErrorMessage is shown when the request never completed.
	ConnectionErrorMessage = "Error connecting to the server."

	LoadingText = "Thinking..."

	EmptySidebarText = "No chats in the last 24 hours."

	InputPlaceholder = "Ask about RTI or request a draft..."
)
