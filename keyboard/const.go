// Package keyboard holds the key vocabulary shared by shortcut parsing,
// display and the device protocol: canonical key names, accepted aliases,
// media keys and the HID usage codes the Micropad firmware emits.
package keyboard

// HID modifier bitmasks (left-hand keys, as sent in byte 0 of a report).
const (
	HIDLeftCtrl  = 0x01
	HIDLeftShift = 0x02
	HIDLeftAlt   = 0x04
	HIDLeftGUI   = 0x08 // Windows/Command key
)

// HID usage codes (USB HID Keyboard/Keypad usage page)
const (
	KeyA = 0x04
	KeyZ = 0x1D

	Key1 = 0x1E
	Key0 = 0x27

	KeyEnter      = 0x28
	KeyEscape     = 0x29
	KeyBackspace  = 0x2A
	KeyTab        = 0x2B
	KeySpace      = 0x2C
	KeyMinus      = 0x2D // - and _
	KeyEqual      = 0x2E // = and +
	KeyLeftBrace  = 0x2F // [ and {
	KeyRightBrace = 0x30 // ] and }
	KeyBackslash  = 0x31 // \ and |
	KeySemicolon  = 0x33 // ; and :
	KeyApostrophe = 0x34 // ' and "
	KeyGrave      = 0x35 // ` and ~
	KeyComma      = 0x36 // , and <
	KeyPeriod     = 0x37 // . and >
	KeySlash      = 0x38 // / and ?
	KeyCapsLock   = 0x39

	KeyF1  = 0x3A
	KeyF12 = 0x45

	KeyPrintScreen = 0x46
	KeyScrollLock  = 0x47
	KeyPause       = 0x48
	KeyInsert      = 0x49
	KeyHome        = 0x4A
	KeyPageUp      = 0x4B
	KeyDelete      = 0x4C
	KeyEnd         = 0x4D
	KeyPageDown    = 0x4E

	KeyRight = 0x4F
	KeyLeft  = 0x50
	KeyDown  = 0x51
	KeyUp    = 0x52

	KeyNumLock     = 0x53
	KeyApplication = 0x65

	KeyF13 = 0x68
	KeyF24 = 0x73

	KeyMute       = 0x7F
	KeyVolumeUp   = 0x80
	KeyVolumeDown = 0x81

	// Media control keys. The firmware maps these onto consumer-page reports.
	KeyMediaPlayPause = 0xE8
	KeyMediaStop      = 0xE9
	KeyMediaNext      = 0xEB
	KeyMediaPrevious  = 0xEC
)

// namedKeys maps canonical multi-character key names to HID usage codes.
var namedKeys = map[string]uint8{
	"Enter":       KeyEnter,
	"Escape":      KeyEscape,
	"Backspace":   KeyBackspace,
	"Tab":         KeyTab,
	"Space":       KeySpace,
	"CapsLock":    KeyCapsLock,
	"PrintScreen": KeyPrintScreen,
	"ScrollLock":  KeyScrollLock,
	"PauseBreak":  KeyPause,
	"Insert":      KeyInsert,
	"Home":        KeyHome,
	"PageUp":      KeyPageUp,
	"Delete":      KeyDelete,
	"End":         KeyEnd,
	"PageDown":    KeyPageDown,
	"Right":       KeyRight,
	"Left":        KeyLeft,
	"Down":        KeyDown,
	"Up":          KeyUp,
	"NumLock":     KeyNumLock,
	"Application": KeyApplication,
}

// mediaKeys is the closed set of media identifiers accepted as terminal keys.
// Play and Pause share the play/pause usage; the firmware toggles.
var mediaKeys = map[string]uint8{
	"MediaPlay":      KeyMediaPlayPause,
	"MediaPause":     KeyMediaPlayPause,
	"MediaPlayPause": KeyMediaPlayPause,
	"MediaStop":      KeyMediaStop,
	"MediaNext":      KeyMediaNext,
	"MediaPrev":      KeyMediaPrevious,
	"VolumeUp":       KeyVolumeUp,
	"VolumeDown":     KeyVolumeDown,
	"Mute":           KeyMute,
}

// aliases maps lower-cased alternative spellings onto canonical names. It
// covers browser KeyboardEvent.key values and the short forms the
// configurator has always accepted in typed shortcuts.
var aliases = map[string]string{
	"esc":        "Escape",
	"return":     "Enter",
	"del":        "Delete",
	"ins":        "Insert",
	"bksp":       "Backspace",
	"spacebar":   "Space",
	"pgup":       "PageUp",
	"pgdn":       "PageDown",
	"arrowup":    "Up",
	"arrowdown":  "Down",
	"arrowleft":  "Left",
	"arrowright": "Right",

	"contextmenu": "Application",
	"menu":        "Application",
	"prtsc":       "PrintScreen",
	"break":       "PauseBreak",

	"minus":      "-",
	"equal":      "=",
	"leftbrace":  "[",
	"rightbrace": "]",
	"backslash":  "\\",
	"semicolon":  ";",
	"apostrophe": "'",
	"grave":      "`",
	"comma":      ",",
	"period":     ".",
	"slash":      "/",
	"plus":       "+",

	"play":               "MediaPlay",
	"pause":              "MediaPause",
	"stop":               "MediaStop",
	"next":               "MediaNext",
	"prev":               "MediaPrev",
	"previous":           "MediaPrev",
	"volup":              "VolumeUp",
	"voldown":            "VolumeDown",
	"playpause":          "MediaPlayPause",
	"mediaplaypause":     "MediaPlayPause",
	"mediatracknext":     "MediaNext",
	"mediatrackprevious": "MediaPrev",
	"medianexttrack":     "MediaNext",
	"mediaprevioustrack": "MediaPrev",
	"audiovolumeup":      "VolumeUp",
	"audiovolumedown":    "VolumeDown",
	"audiovolumemute":    "Mute",
	"volumemute":         "Mute",
}

// eventKeys maps exact KeyboardEvent.key identifiers whose meaning differs
// from the typed alias of the same spelling.
var eventKeys = map[string]string{
	"Pause": "PauseBreak",
}

// punctUsage maps unshifted and shifted punctuation to the key producing it.
var punctUsage = map[rune]uint8{
	'-': KeyMinus, '_': KeyMinus,
	'=': KeyEqual, '+': KeyEqual,
	'[': KeyLeftBrace, '{': KeyLeftBrace,
	']': KeyRightBrace, '}': KeyRightBrace,
	'\\': KeyBackslash, '|': KeyBackslash,
	';': KeySemicolon, ':': KeySemicolon,
	'\'': KeyApostrophe, '"': KeyApostrophe,
	'`': KeyGrave, '~': KeyGrave,
	',': KeyComma, '<': KeyComma,
	'.': KeyPeriod, '>': KeyPeriod,
	'/': KeySlash, '?': KeySlash,
	'!': Key1, '@': Key1 + 1, '#': Key1 + 2, '$': Key1 + 3, '%': Key1 + 4,
	'^': Key1 + 5, '&': Key1 + 6, '*': Key1 + 7, '(': Key1 + 8, ')': Key0,
}
