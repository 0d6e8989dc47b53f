package cli

import (
	"context"
	"os"

	"github.com/themisai/themis/internal/client/guard"
	"github.com/themisai/themis/internal/client/models"
	"github.com/themisai/themis/internal/client/render"
	"github.com/themisai/themis/internal/common"
)

const landingHelp = `Perintah: signin, signup, forgot, reset, exit`

// landing is the public start screen.
func (a *App) landing(ctx context.Context) bool {
	printlnFn("ThemisAI - asisten konsultasi hukum")
	printlnFn(landingHelp)

	for {
		cmd, err := a.readLine("themis")
		if err != nil {
			return true
		}
		switch cmd {
		case "":
			continue
		case "signin", "login":
			a.Navigate(guard.PathSignIn)
		case "signup", "register":
			a.Navigate(guard.PathSignUp)
		case "forgot":
			a.Navigate(guard.PathForgotPassword)
		case "reset":
			a.Navigate(guard.PathResetPassword)
		case "exit", "quit":
			return true
		case "help":
			printlnFn(landingHelp)
			continue
		default:
			printlnFn("Perintah tidak dikenal:", cmd)
			continue
		}
		return false
	}
}

func (a *App) signIn(ctx context.Context) bool {
	email, err := a.readLine("Email")
	if err != nil {
		return true
	}
	password, err := getPassword(os.Stdout, "Kata sandi")
	if err != nil {
		return true
	}
	defer common.WipeByteArray(password)

	if err := a.auth.SignIn(ctx, email, string(password)); err != nil {
		printlnFn(render.ErrorStyle.Render("Gagal masuk: " + err.Error()))
		a.Navigate(guard.PathLanding)
		return false
	}
	a.Navigate(guard.PathChat)
	return false
}

func (a *App) signUp(ctx context.Context) bool {
	var r models.SignUpRequest
	fields := []struct {
		prompt string
		dst    *string
	}{
		{"Nama lengkap", &r.FullName},
		{"Email", &r.Email},
		{"Jenis kelamin", &r.Gender},
		{"Tanggal lahir (YYYY-MM-DD)", &r.DateOfBirth},
		{"Alamat", &r.Line1},
		{"Kota", &r.City},
		{"Provinsi", &r.State},
		{"Kode pos", &r.PostalCode},
		{"Negara", &r.Country},
	}
	for _, f := range fields {
		v, err := a.readLine(f.prompt)
		if err != nil {
			return true
		}
		*f.dst = v
	}

	password, err := getPassword(os.Stdout, "Kata sandi")
	if err != nil {
		return true
	}
	defer common.WipeByteArray(password)
	r.Password = string(password)

	if err := a.auth.SignUp(ctx, r); err != nil {
		printlnFn(render.ErrorStyle.Render("Pendaftaran gagal: " + err.Error()))
		a.Navigate(guard.PathLanding)
		return false
	}
	a.Navigate(guard.PathChat)
	return false
}

func (a *App) forgotPassword(ctx context.Context) bool {
	email, err := a.readLine("Email")
	if err != nil {
		return true
	}
	if err := a.auth.ForgotPassword(ctx, email); err != nil {
		printlnFn(render.ErrorStyle.Render("Permintaan gagal: " + err.Error()))
	} else {
		printlnFn("Jika email terdaftar, tautan reset telah dikirim.")
	}
	a.Navigate(guard.PathLanding)
	return false
}

func (a *App) resetPassword(ctx context.Context) bool {
	token, err := a.readLine("Token reset")
	if err != nil {
		return true
	}
	password, err := getPassword(os.Stdout, "Kata sandi baru")
	if err != nil {
		return true
	}
	defer common.WipeByteArray(password)

	if err := a.auth.ResetPassword(ctx, token, string(password)); err != nil {
		printlnFn(render.ErrorStyle.Render("Reset gagal: " + err.Error()))
		a.Navigate(guard.PathLanding)
		return false
	}
	printlnFn("Kata sandi diperbarui. Silakan masuk.")
	a.Navigate(guard.PathSignIn)
	return false
}
