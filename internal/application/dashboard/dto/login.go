package dto

// LoginState is the state of the login-driven dashboard after a submission.
type LoginState string

const (
	LoginStateAwaitingInput LoginState = "awaiting_input"
	LoginStateValidating    LoginState = "validating"
	LoginStateShowing       LoginState = "showing"
	LoginStateError         LoginState = "error"
)

type LoginFailureReason string

const (
	LoginReasonNone              LoginFailureReason = ""
	LoginReasonNoTickets         LoginFailureReason = "no_tickets"
	LoginReasonSourceUnavailable LoginFailureReason = "source_unavailable"

	// LoginReasonInvalidInput marks a form rejected before any connection
	// was attempted.
	LoginReasonInvalidInput LoginFailureReason = "invalid_input"
)

// LoginErrorMessage replaces the sprint name when a submission fails.
const LoginErrorMessage = "Erro ao carregar sprint"

// LoginErrorValue fills every summary field when a submission fails.
const LoginErrorValue = "Erro"

// SubmitLoginRequest is the login form. Attempts counts submissions so far;
// the fields are only validated once Attempts is positive.
type SubmitLoginRequest struct {
	Server   string `json:"server" form:"server" validate:"required,sqlserver_host"`
	Database string `json:"database" form:"database" validate:"required,max=128"`
	Username string `json:"username" form:"username" validate:"required,max=128"`
	Password string `json:"password" form:"password" validate:"max=128"`
	Attempts int    `json:"n_clicks" form:"n_clicks" validate:"min=0"`
}

// LoginResult is the batch of view outputs produced by one submission.
type LoginResult struct {
	State          LoginState         `json:"state"`
	Reason         LoginFailureReason `json:"reason,omitempty"`
	ContentVisible bool               `json:"content_visible"`
	FormVisible    bool               `json:"form_visible"`
	SprintName     string             `json:"sprint_name"`
	Fields         []SummaryField     `json:"fields"`
	Charts         []ChartSpec        `json:"charts"`
}
