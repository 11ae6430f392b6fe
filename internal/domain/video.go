package domain

// VideoID is an opaque token naming a video on the host platform.
// A present VideoID is never empty; absence is reported separately.
type VideoID string

// SlotKey names the shared storage slot that carries the published VideoID
// from the page to the panel.
const SlotKey = "transcript_videoId"

// QueryRequest is the body sent to the backend for one user submission.
type QueryRequest struct {
	VideoID  VideoID `json:"video_id"`
	Question string  `json:"question"`
}
