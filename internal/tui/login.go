// ABOUTME: Login and registration forms
// ABOUTME: Client-side validation runs before any request leaves the form

package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/skylane/flightdeck/internal/api"
	"github.com/skylane/flightdeck/internal/session"
	"github.com/skylane/flightdeck/internal/validate"
)

// loginForm is the email/password sign-in form.
type loginForm struct {
	inputs     []textinput.Model
	focus      int
	problems   []validate.Problem
	submitting bool
	serverErr  string
}

const (
	loginFieldEmail = iota
	loginFieldPassword
)

func newLoginForm() loginForm {
	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 120
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 120
	password.EchoMode = textinput.EchoPassword

	return loginForm{inputs: []textinput.Model{email, password}}
}

func (f *loginForm) setFocus(index int) {
	f.focus = index
	for i := range f.inputs {
		if i == index {
			f.inputs[i].Focus()
		} else {
			f.inputs[i].Blur()
		}
	}
}

func (f *loginForm) validate() bool {
	email := strings.TrimSpace(f.inputs[loginFieldEmail].Value())
	password := f.inputs[loginFieldPassword].Value()

	f.problems = validate.Collect(
		validate.Required("email", "Email", email),
		validate.Email("email", email),
		validate.Required("password", "Password", password),
	)
	return len(f.problems) == 0
}

func (m Model) updateLogin(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch message.String() {
	case "tab", "down":
		m.login.setFocus((m.login.focus + 1) % len(m.login.inputs))
		return m, nil
	case "shift+tab", "up":
		m.login.setFocus((m.login.focus + len(m.login.inputs) - 1) % len(m.login.inputs))
		return m, nil
	case "ctrl+r":
		m.screen = ScreenRegister
		m.register = newRegisterForm()
		return m, nil
	case "enter":
		if m.login.focus < len(m.login.inputs)-1 {
			m.login.setFocus(m.login.focus + 1)
			return m, nil
		}
		if m.login.submitting || !m.login.validate() {
			return m, nil
		}
		m.login.submitting = true
		m.login.serverErr = ""
		return m, submitLogin(m.app.Ctx, m.app.Session,
			strings.TrimSpace(m.login.inputs[loginFieldEmail].Value()),
			m.login.inputs[loginFieldPassword].Value())
	}

	var cmd tea.Cmd
	m.login.inputs[m.login.focus], cmd = m.login.inputs[m.login.focus].Update(message)
	return m, cmd
}

func submitLogin(ctx context.Context, manager *session.Manager, email, password string) tea.Cmd {
	return func() tea.Msg {
		user, err := manager.Login(ctx, email, password)
		return loginResultMsg{user: user, err: err}
	}
}

func (m Model) handleLoginResult(message loginResultMsg) (tea.Model, tea.Cmd) {
	m.login.submitting = false
	if message.err != nil {
		m.login.serverErr = message.err.Error()
		return m, nil
	}
	m.screen = ScreenFlights
	return m.showNotice("Welcome back, " + message.user.FirstName)
}

func (m Model) viewLogin() string {
	var b strings.Builder
	b.WriteString(m.theme.Title.Render("flightdeck") + "\n\n")
	b.WriteString(m.theme.Header.Render("Sign in") + "\n\n")

	labels := []string{"Email", "Password"}
	fields := []string{"email", "password"}
	for i, input := range m.login.inputs {
		b.WriteString(m.theme.Label.Render(labels[i]) + "\n")
		b.WriteString(input.View() + "\n")
		if msg := validate.FirstMessage(m.login.problems, fields[i]); msg != "" {
			b.WriteString(m.theme.Danger.Render(msg) + "\n")
		}
		b.WriteString("\n")
	}

	if m.login.serverErr != "" {
		b.WriteString(m.theme.Danger.Render(m.login.serverErr) + "\n\n")
	}
	if m.login.submitting {
		b.WriteString(m.theme.Muted.Render("Signing in...") + "\n")
	}
	b.WriteString(m.theme.Muted.Render("Enter submit · Ctrl+R register · Ctrl+C quit"))
	return m.theme.Box.Render(b.String())
}

// registerForm is the account-creation form.
type registerForm struct {
	inputs     []textinput.Model
	focus      int
	problems   []validate.Problem
	submitting bool
	serverErr  string
}

const (
	regFieldFirstName = iota
	regFieldLastName
	regFieldEmail
	regFieldPassword
	regFieldDateOfBirth
	regFieldGender
	regFieldCountry
	regFieldStreet
	regFieldStreetNumber
	regFieldCount
)

var regLabels = [regFieldCount]string{
	"First name", "Last name", "Email", "Password",
	"Date of birth (YYYY-MM-DD)", "Gender (M/F/Other)",
	"Country", "Street", "Street number",
}

var regFields = [regFieldCount]string{
	"first_name", "last_name", "email", "password",
	"date_of_birth", "gender", "country", "street", "street_number",
}

func newRegisterForm() registerForm {
	inputs := make([]textinput.Model, regFieldCount)
	for i := range inputs {
		inputs[i] = textinput.New()
		inputs[i].CharLimit = 120
		inputs[i].Placeholder = strings.ToLower(regLabels[i])
	}
	inputs[regFieldPassword].EchoMode = textinput.EchoPassword
	inputs[0].Focus()
	return registerForm{inputs: inputs}
}

func (f *registerForm) setFocus(index int) {
	f.focus = index
	for i := range f.inputs {
		if i == index {
			f.inputs[i].Focus()
		} else {
			f.inputs[i].Blur()
		}
	}
}

func (f *registerForm) value(index int) string {
	return strings.TrimSpace(f.inputs[index].Value())
}

func (f *registerForm) validate(now time.Time) bool {
	dob, dobErr := time.Parse("2006-01-02", f.value(regFieldDateOfBirth))

	f.problems = validate.Collect(
		validate.Required("first_name", "First name", f.value(regFieldFirstName)),
		validate.Required("last_name", "Last name", f.value(regFieldLastName)),
		validate.Email("email", f.value(regFieldEmail)),
		validate.Password("password", f.inputs[regFieldPassword].Value()),
		validate.Required("country", "Country", f.value(regFieldCountry)),
		validate.Required("street", "Street", f.value(regFieldStreet)),
		validate.Required("street_number", "Street number", f.value(regFieldStreetNumber)),
	)
	if dobErr != nil {
		f.problems = append(f.problems, validate.Problem{
			Field: "date_of_birth", Message: "Date of birth is required"})
	} else if p := validate.DateOfBirth("date_of_birth", dob, now); p != nil {
		f.problems = append(f.problems, *p)
	}
	return len(f.problems) == 0
}

func (f *registerForm) request() api.RegisterRequest {
	return api.RegisterRequest{
		FirstName:    f.value(regFieldFirstName),
		LastName:     f.value(regFieldLastName),
		Email:        f.value(regFieldEmail),
		Password:     f.inputs[regFieldPassword].Value(),
		DateOfBirth:  f.value(regFieldDateOfBirth),
		Gender:       f.value(regFieldGender),
		Country:      f.value(regFieldCountry),
		Street:       f.value(regFieldStreet),
		StreetNumber: f.value(regFieldStreetNumber),
	}
}

func (m Model) updateRegister(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch message.String() {
	case "esc":
		m.screen = ScreenLogin
		return m, nil
	case "tab", "down":
		m.register.setFocus((m.register.focus + 1) % regFieldCount)
		return m, nil
	case "shift+tab", "up":
		m.register.setFocus((m.register.focus + regFieldCount - 1) % regFieldCount)
		return m, nil
	case "enter":
		if m.register.focus < regFieldCount-1 {
			m.register.setFocus(m.register.focus + 1)
			return m, nil
		}
		if m.register.submitting || !m.register.validate(time.Now()) {
			return m, nil
		}
		m.register.submitting = true
		m.register.serverErr = ""
		req := m.register.request()
		manager := m.app.Session
		ctx := m.app.Ctx
		return m, func() tea.Msg {
			return registerResultMsg{err: manager.Register(ctx, req)}
		}
	}

	var cmd tea.Cmd
	m.register.inputs[m.register.focus], cmd = m.register.inputs[m.register.focus].Update(message)
	return m, cmd
}

func (m Model) handleRegisterResult(message registerResultMsg) (tea.Model, tea.Cmd) {
	m.register.submitting = false
	if message.err != nil {
		m.register.serverErr = message.err.Error()
		return m, nil
	}
	m.screen = ScreenLogin
	m.login = newLoginForm()
	return m.showNotice("Account created, sign in to continue")
}

func (m Model) viewRegister() string {
	var b strings.Builder
	b.WriteString(m.theme.Title.Render("flightdeck") + "\n\n")
	b.WriteString(m.theme.Header.Render("Create account") + "\n\n")

	for i, input := range m.register.inputs {
		b.WriteString(m.theme.Label.Render(regLabels[i]) + "\n")
		b.WriteString(input.View() + "\n")
		if msg := validate.FirstMessage(m.register.problems, regFields[i]); msg != "" {
			b.WriteString(m.theme.Danger.Render(msg) + "\n")
		}
	}

	if m.register.serverErr != "" {
		b.WriteString("\n" + m.theme.Danger.Render(m.register.serverErr) + "\n")
	}
	if m.register.submitting {
		b.WriteString("\n" + m.theme.Muted.Render("Creating account...") + "\n")
	}
	b.WriteString("\n" + m.theme.Muted.Render("Enter next/submit · Esc back to sign-in"))
	return m.theme.Box.Render(b.String())
}
