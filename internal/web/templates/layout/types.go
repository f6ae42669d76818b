package layout

// FlashMessage is a one-shot notice shown at the top of the next page
type FlashMessage struct {
	Type    string // success, error, info
	Message string
}

// PageData is shared by every full page
type PageData struct {
	Title string
	Flash *FlashMessage
}

// FlashID is the element that holds the flash message
const FlashID = "flash"
