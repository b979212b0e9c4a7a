package notifier

type MessagePayload struct {
	To      string `json:"to"`
	Message string `json:"message"`
}
