package atelier

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-print"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/nyaruka/phonenumbers"
)

// ContextSessionKey is where the Protected middleware stores the
// validated session claims on the request context.
const ContextSessionKey = "session"

type apiResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

type AccountControllerRoutes struct {
	Account    string
	Login      string
	Logout     string
	Register   string
	Activation string
	Me         string
}

type AccountController struct {
	Debug   bool
	Logger  Logger
	Repo    RepositoryManager
	Auther  Authenticator
	Tokens  TokenService
	Mailer  Mailer
	Cookies *SessionCookies
	BaseURL string
	Routes  *AccountControllerRoutes

	registration *RegistrationRequestHandler
	activation   *AccountActivationHandler
}

type AccountControllerOption func(*AccountController) *AccountController

func NewAccountController(opts ...AccountControllerOption) *AccountController {
	c := &AccountController{
		Logger: defLogger{},
		Routes: &AccountControllerRoutes{
			Account:    "/accounts/:id",
			Login:      "/auth/login",
			Logout:     "/auth/logout",
			Register:   "/auth/register-request",
			Activation: "/auth/activation",
			Me:         "/auth/me",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Repo == nil {
		panic("Missing RepositoryManager in account controller...")
	}

	if c.Auther == nil {
		panic("Missing Authenticator in account controller...")
	}

	if c.Tokens == nil {
		panic("Missing TokenService in account controller...")
	}

	if c.Mailer == nil {
		panic("Missing Mailer in account controller...")
	}

	if c.Cookies == nil {
		c.Cookies = NewSessionCookies(c.Tokens.SessionDuration())
	}

	c.registration = NewRegistrationRequestHandler(c.Repo, c.Tokens, c.Mailer, c.BaseURL).
		WithLogger(c.Logger)
	c.activation = NewAccountActivationHandler(c.Repo, c.Tokens).
		WithLogger(c.Logger)

	return c
}

func (a *AccountController) WithLogger(logger Logger) *AccountController {
	if logger != nil {
		a.Logger = logger
	}
	return a
}

// RegisterAccountRoutes mounts the account and auth endpoints.
func RegisterAccountRoutes(app fiber.Router, opts ...AccountControllerOption) *AccountController {
	controller := NewAccountController(opts...)

	app.Get(controller.Routes.Account, controller.AccountShow)
	app.Post(controller.Routes.Login, controller.LoginPost)
	app.Post(controller.Routes.Logout, controller.LogoutPost)
	app.Post(controller.Routes.Register, controller.RegistrationRequest)
	app.Get(controller.Routes.Activation, controller.Activation)
	app.Get(controller.Routes.Me, controller.Protected(), controller.Me)

	return controller
}

// AccountShow serves the fixed, privacy-filtered account projection.
func (a *AccountController) AccountShow(c *fiber.Ctx) error {
	id := c.Params("id")

	found, err := a.Repo.Accounts().GetByID(c.Context(), id, AccountDetailProjection.Criteria())
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return c.Status(http.StatusNotFound).JSON(apiResponse{
				Success: false,
				Message: "No such account found.",
			})
		}
		a.Logger.Error("account show error", "error", err, "id", id)
		return c.Status(http.StatusInternalServerError).JSON(apiResponse{
			Success: false,
			Message: "Something went wrong.",
		})
	}

	if a.Debug {
		fmt.Println(print.MaybePrettyJSON(found))
	}

	return c.Status(http.StatusOK).JSON(apiResponse{
		Success: true,
		Message: "Account retrieved.",
		Data:    found,
	})
}

// LoginRequest payload
type LoginRequest struct {
	Login    string `form:"login" json:"login"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Login,
			validation.Required,
		),
		validation.Field(
			&r.Password,
			validation.Required,
		),
	)
}

func (a *AccountController) LoginPost(c *fiber.Ctx) error {
	payload := new(LoginRequest)

	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("login parse payload", "error", err)
		return c.Status(http.StatusBadRequest).JSON(apiResponse{
			Success: false,
			Message: "Could not parse the request body.",
		})
	}

	if err := payload.Validate(); err != nil {
		return c.Status(http.StatusBadRequest).JSON(apiResponse{
			Success: false,
			Message: "Invalid login payload.",
			Data:    FormatValidationErrorToMap(err),
		})
	}

	result, err := a.Auther.Login(c.Context(), payload.Login, payload.Password)
	if err != nil {
		if HTTPStatus(err) == http.StatusUnauthorized {
			return c.Status(http.StatusUnauthorized).JSON(apiResponse{
				Success: false,
				Message: "No such account.",
			})
		}
		a.Logger.Error("login error", "error", err)
		return c.Status(http.StatusInternalServerError).JSON(apiResponse{
			Success: false,
			Message: "Something went wrong.",
		})
	}

	if err := a.Cookies.Issue(c, result); err != nil {
		a.Logger.Error("login cookie issue error", "error", err)
		return c.Status(http.StatusInternalServerError).JSON(apiResponse{
			Success: false,
			Message: "Something went wrong.",
		})
	}

	return c.Status(http.StatusOK).JSON(apiResponse{
		Success: true,
		Message: "Successfully logged in.",
	})
}

func (a *AccountController) LogoutPost(c *fiber.Ctx) error {
	a.Cookies.Clear(c)
	return c.Status(http.StatusOK).JSON(apiResponse{
		Success: true,
		Message: "Successfully logged out.",
	})
}

// RegistrationRequestPayload is the phase-1 signup payload.
type RegistrationRequestPayload struct {
	Login            string `form:"login" json:"login"`
	Email            string `form:"email" json:"email"`
	Password         string `form:"password" json:"password"`
	Phone            string `form:"phone" json:"phone"`
	WantToBeOperator bool   `form:"want_to_be_operator" json:"want_to_be_operator"`
}

// Validate will validate the payload
func (r RegistrationRequestPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Login, validation.Required, validation.Length(3, 64)),
		validation.Field(&r.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 100)),
		validation.Field(&r.Phone, validation.By(ValidatePhoneNumber)),
	)
}

func (a *AccountController) RegistrationRequest(c *fiber.Ctx) error {
	payload := new(RegistrationRequestPayload)

	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("registration parse payload", "error", err)
		return c.Status(http.StatusBadRequest).JSON(apiResponse{
			Success: false,
			Message: "Could not parse the request body.",
		})
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Error("registration validate payload", "error", err)
		return c.Status(http.StatusBadRequest).JSON(apiResponse{
			Success: false,
			Message: "Invalid registration payload.",
			Data:    FormatValidationErrorToMap(err),
		})
	}

	msg := RegistrationRequestMessage{
		Login:            payload.Login,
		Email:            payload.Email,
		Password:         payload.Password,
		Phone:            payload.Phone,
		WantToBeOperator: payload.WantToBeOperator,
	}

	if err := a.registration.Execute(c.Context(), msg); err != nil {
		switch HTTPStatus(err) {
		case http.StatusConflict:
			return c.Status(http.StatusConflict).JSON(apiResponse{
				Success: false,
				Message: "An account with that login or email already exists.",
			})
		case http.StatusServiceUnavailable:
			return c.Status(http.StatusServiceUnavailable).JSON(apiResponse{
				Success: false,
				Message: "Could not send the activation email.",
			})
		default:
			a.Logger.Error("registration request error", "error", err)
			return c.Status(http.StatusInternalServerError).JSON(apiResponse{
				Success: false,
				Message: "Something went wrong.",
			})
		}
	}

	return c.Status(http.StatusOK).JSON(apiResponse{
		Success: true,
		Message: "We sent an activation link to your email address.",
	})
}

func (a *AccountController) Activation(c *fiber.Ctx) error {
	msg := AccountActivationMessage{
		Token: c.Query("token"),
	}

	if err := a.activation.Execute(c.Context(), msg); err != nil {
		switch HTTPStatus(err) {
		case http.StatusForbidden:
			return c.Status(http.StatusForbidden).JSON(apiResponse{
				Success: false,
				Message: "Unauthorized account verification attempt.",
			})
		case http.StatusUnprocessableEntity:
			return c.Status(http.StatusUnprocessableEntity).JSON(apiResponse{
				Success: false,
				Message: "Could not create the account.",
			})
		default:
			a.Logger.Error("activation error", "error", err)
			return c.Status(http.StatusInternalServerError).JSON(apiResponse{
				Success: false,
				Message: "Something went wrong.",
			})
		}
	}

	return c.Status(http.StatusCreated).JSON(apiResponse{
		Success: true,
		Message: "Account verified and created.",
	})
}

// Protected validates the session credential cookie and stores the
// claims on the request context.
func (a *AccountController) Protected() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Cookies(CookieAuthorization)
		raw = strings.TrimSpace(strings.TrimPrefix(raw, AuthScheme))

		if raw == "" {
			return c.Status(http.StatusUnauthorized).JSON(apiResponse{
				Success: false,
				Message: "Authentication required.",
			})
		}

		claims, err := a.Auther.SessionFromToken(raw)
		if err != nil {
			return c.Status(http.StatusUnauthorized).JSON(apiResponse{
				Success: false,
				Message: "Authentication required.",
			})
		}

		c.Locals(ContextSessionKey, claims)
		return c.Next()
	}
}

// Me returns the authenticated session identity.
func (a *AccountController) Me(c *fiber.Ctx) error {
	claims, ok := c.Locals(ContextSessionKey).(*SessionClaims)
	if !ok || claims == nil {
		return c.Status(http.StatusUnauthorized).JSON(apiResponse{
			Success: false,
			Message: "Authentication required.",
		})
	}

	return c.Status(http.StatusOK).JSON(apiResponse{
		Success: true,
		Message: "Session retrieved.",
		Data: UserMarker{
			Role: claims.Role,
			ID:   claims.AccountID,
		},
	})
}

// ValidatePhoneNumber accepts empty values and E.164 numbers.
func ValidatePhoneNumber(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}

	num, err := phonenumbers.Parse(s, "")
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return errors.New("must be a valid international phone number")
	}

	return nil
}

// FormatValidationErrorToMap flattens ozzo validation errors into a
// field -> message map.
func FormatValidationErrorToMap(err error) map[string]string {
	out := map[string]string{}
	if err == nil {
		return out
	}

	var verrs validation.Errors
	if errors.As(err, &verrs) {
		for field, ferr := range verrs {
			out[field] = ferr.Error()
		}
		return out
	}

	out["error"] = err.Error()
	return out
}
