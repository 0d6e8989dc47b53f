package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/themisai/themis/internal/server/models"
	"github.com/themisai/themis/internal/server/services"
)

const dateLayout = "2006-01-02"

type tokenResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        *userSummary `json:"user,omitempty"`
}

type userSummary struct {
	ID          string        `json:"id"`
	FullName    string        `json:"full_name"`
	Email       string        `json:"email"`
	Gender      models.Gender `json:"gender"`
	DateOfBirth *string       `json:"date_of_birth"`
}

type addressResponse struct {
	Line1      *string `json:"line1"`
	City       *string `json:"city"`
	State      *string `json:"state"`
	PostalCode *string `json:"postal_code"`
	Country    *string `json:"country"`
}

type profileResponse struct {
	ID          string          `json:"id"`
	FullName    string          `json:"full_name"`
	Email       string          `json:"email"`
	IsActive    bool            `json:"is_active"`
	Gender      models.Gender   `json:"gender"`
	DateOfBirth *string         `json:"date_of_birth"`
	Address     addressResponse `json:"address"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

type resetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

// optional turns a blank query value into nil.
func optional(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

func (h *Handler) signUp(c *gin.Context) {
	in := services.SignUpInput{
		FullName: c.Query("full_name"),
		Email:    c.Query("email"),
		Password: c.Query("password"),
		Gender:   models.Gender(strings.TrimSpace(c.Query("gender"))),
		Address: models.Address{
			Line1:      optional(c.Query("line1")),
			City:       optional(c.Query("city")),
			State:      optional(c.Query("state")),
			PostalCode: optional(c.Query("postal_code")),
			Country:    optional(c.Query("country")),
		},
	}
	if in.Gender != "" && !in.Gender.Valid() {
		unprocessable(c, "gender must be one of male, female, unknown")
		return
	}
	if v := strings.TrimSpace(c.Query("date_of_birth")); v != "" {
		dob, err := time.Parse(dateLayout, v)
		if err != nil {
			unprocessable(c, "date_of_birth must be YYYY-MM-DD")
			return
		}
		in.DateOfBirth = &dob
	}

	res, err := h.users.SignUp(c.Request.Context(), in)
	if err != nil {
		h.writeError(c, err)
		return
	}

	p := res.Person
	c.JSON(http.StatusOK, tokenResponse{
		AccessToken: res.AccessToken,
		TokenType:   "bearer",
		User: &userSummary{
			ID:          p.ID,
			FullName:    p.FullName,
			Email:       p.Email,
			Gender:      p.Gender,
			DateOfBirth: formatDate(p.DateOfBirth),
		},
	})
}

func (h *Handler) signIn(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")
	if username == "" || password == "" {
		unprocessable(c, "username and password are required")
		return
	}

	token, err := h.users.SignIn(c.Request.Context(), username, password)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}

func (h *Handler) me(c *gin.Context) {
	p := personFromContext(c)
	if p == nil {
		abortUnauthorized(c)
		return
	}

	resp := profileResponse{
		ID:          p.ID,
		FullName:    p.FullName,
		Email:       p.Email,
		IsActive:    p.IsActive,
		Gender:      p.Gender,
		DateOfBirth: formatDate(p.DateOfBirth),
	}
	if a := p.Address; a != nil {
		resp.Address = addressResponse{
			Line1:      a.Line1,
			City:       a.City,
			State:      a.State,
			PostalCode: a.PostalCode,
			Country:    a.Country,
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) forgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		unprocessable(c, "email is required")
		return
	}

	h.users.ForgotPassword(c.Request.Context(), req.Email)
	c.JSON(http.StatusOK, gin.H{"detail": "If the email is registered, a reset link has been sent"})
}

func (h *Handler) resetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		unprocessable(c, "token and new_password are required")
		return
	}

	if err := h.users.ResetPassword(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"detail": "Password has been reset"})
}
