package models

// CodeSuccess is the code the upstream API reports for accepted writes.
const CodeSuccess = "Success"

type Contact struct {
	Email      string `json:"email"`
	UserID     string `json:"userId,omitempty"`
	DataFields Fields `json:"dataFields,omitempty"`
}

// UserResponse is the result of a lookup by email. User is nil when no contact
// exists for the email.
type UserResponse struct {
	User *Contact `json:"user,omitempty"`
}

// Found reports whether the lookup returned a contact.
func (r *UserResponse) Found() bool {
	return r != nil && r.User != nil
}

// APIResponse is the upstream acknowledgement of a write.
type APIResponse struct {
	Msg    string         `json:"msg"`
	Code   string         `json:"code"`
	Params map[string]any `json:"params,omitempty"`
}

func (r *APIResponse) Succeeded() bool {
	return r != nil && r.Code == CodeSuccess
}
