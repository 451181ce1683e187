package web

// Setting is a hub setting a client can change with a SettingsMessage.
type Setting = uint8

const (
	_ Setting = iota
	Compression
	CompressionLevel
	FramePatching
	FrameSkipping
	ClientStatus
	FramePatchingRatio
	RegisterUsername
	KeepAlive = 254
	Closing   = 255
)

// ClientMessage is the first byte of a message sent by a client.
type ClientMessage = uint8

const (
	// InputMessage is followed by an io.Button and 1 for pressed or 0
	// for released. Only the player's input is accepted.
	InputMessage ClientMessage = iota + 1
	// PauseMessage is followed by 0 to pause or 1 to resume.
	PauseMessage
	// SettingsMessage is followed by a Setting and its value.
	SettingsMessage ClientMessage = 10
	// CloseMessage asks the hub to drop the client.
	CloseMessage ClientMessage = 255
)

// PlayerEvent is the second byte of a PlayerInfo message.
type PlayerEvent = uint8

const (
	PausePlay PlayerEvent = iota
	Status
	Title
	Sound
)

// Type is the first byte of a message sent by the hub.
type Type = uint8

const (
	Frame Type = iota
	FramePatch
	FrameSkip
	ClientInfo
	PatchCache
	PatchCacheSync
	FrameCache
	FrameCacheSync
	FrameSync
	ClientListSync
	ClientClosing
	ClientListNew
	ClientListIdentify
	ServerInfo
	PlayerInfo
	PlayerIdentify
)
