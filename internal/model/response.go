package model

// ErrorResponse is the standard envelope for error responses.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains the structured error information returned by the API.
type ErrorDetail struct {
	Code    int                    `json:"code"`
	Message string                 `json:"message"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// ConnectionDetails is the payload handed to the client so it can join a
// voice-agent room: where to connect and the participant token to use.
type ConnectionDetails struct {
	ServerURL           string `json:"serverUrl"`
	RoomName            string `json:"roomName"`
	ParticipantIdentity string `json:"participantIdentity"`
	ParticipantName     string `json:"participantName"`
	ParticipantToken    string `json:"participantToken"`
}
