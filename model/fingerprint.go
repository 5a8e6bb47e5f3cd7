package model

// DeviceFingerprint is the set of browser/device characteristics the client
// submits with login and refresh requests. It is only ever persisted as a
// hash, never raw.
type DeviceFingerprint struct {
	ScreenWidth         int    `json:"screenWidth"`
	ScreenHeight        int    `json:"screenHeight"`
	ColorDepth          int    `json:"colorDepth"`
	Timezone            string `json:"timezone"`
	Language            string `json:"language"`
	UserAgent           string `json:"userAgent"`
	CanvasHash          string `json:"canvasHash"`
	WebGLHash           string `json:"webglHash"`
	TouchSupport        bool   `json:"touchSupport"`
	HardwareConcurrency int    `json:"hardwareConcurrency"`
	DeviceMemory        int    `json:"deviceMemory"`
	Platform            string `json:"platform"`
}
