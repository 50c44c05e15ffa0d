package common

// Key codes passed to window key callbacks. They are GLFW key codes, so printable keys
// use their uppercase ASCII value.
const (
	KeyA = 'A'
	KeyD = 'D'
	KeyE = 'E'
	KeyQ = 'Q'
	KeyS = 'S'
	KeyW = 'W'

	KeySpace  = ' '
	KeyEsc    = 256
	KeyEnter  = 257
	KeyTab    = 258
	KeyRight  = 262
	KeyLeft   = 263
	KeyDown   = 264
	KeyUp     = 265
	KeyHome   = 268
	KeyLShift = 340
	KeyRShift = 344
)
