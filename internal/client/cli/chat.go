package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/themisai/themis/internal/client/api"
	"github.com/themisai/themis/internal/client/chat"
	"github.com/themisai/themis/internal/client/guard"
	"github.com/themisai/themis/internal/client/render"
)

const chatHelp = `Ketik pesan untuk bertanya. Perintah:
  /sessions            daftar percakapan
  /new                 percakapan baru
  /switch <n>          buka percakapan n
  /rename <n> [judul]  ganti judul percakapan n
  /delete <n>          hapus percakapan n
  /attach <path>       lampirkan berkas
  /detach <n>          batalkan lampiran n
  /files               daftar lampiran
  /logout              keluar dari akun
  /exit                tutup aplikasi`

var errBadIndex = errors.New("nomor tidak valid")

// chat runs the private chat screen.
func (a *App) chat(ctx context.Context) bool {
	if err := a.engine.Bootstrap(ctx); err != nil && !api.IsUnauthorized(err) {
		printlnFn(render.ErrorStyle.Render("Gagal memuat percakapan."))
	}
	if !a.active() {
		return false
	}

	printlnFn(chatHelp)
	a.showCurrent()

	return runREPL(ctx, a, a.prompt, a.readLine)
}

func (a *App) active() bool {
	return a.path == guard.PathChat
}

func (a *App) prompt() string {
	snap := a.engine.Snapshot()
	title := "-"
	if s, ok := snap.Current(); ok {
		title = s.DisplayTitle()
	}
	if n := len(snap.Pending); n > 0 {
		return fmt.Sprintf("themis [%s] +%d", title, n)
	}
	return fmt.Sprintf("themis [%s]", title)
}

func (a *App) showCurrent() {
	snap := a.engine.Snapshot()
	if s, ok := snap.Current(); ok {
		printlnFn(render.MutedStyle.Render("== " + s.DisplayTitle() + " =="))
	}
	if len(snap.Transcript) > 0 {
		printlnFn(a.renderer.Transcript(snap.Transcript))
	}
}

func (a *App) Send(ctx context.Context, text string) error {
	err := a.engine.Send(ctx, text)
	switch {
	case errors.Is(err, chat.ErrEmptyMessage), errors.Is(err, chat.ErrBusy):
		printlnFn(render.MutedStyle.Render(err.Error()))
		return err
	case api.IsUnauthorized(err):
		printlnFn(render.ErrorStyle.Render("Sesi berakhir, silakan masuk kembali."))
		return err
	}

	// Print what arrived after the user's own entry.
	tr := a.engine.Snapshot().Transcript
	last := -1
	for i, m := range tr {
		if m.Role == chat.RoleUser {
			last = i
		}
	}
	if last+1 < len(tr) {
		printlnFn(a.renderer.Transcript(tr[last+1:]))
	}
	return err
}

func (a *App) Help() {
	printlnFn(chatHelp)
}

func (a *App) Sessions() {
	snap := a.engine.Snapshot()
	printlnFn(render.Sessions(snap.Sessions, snap.CurrentID))
}

func (a *App) NewChat(ctx context.Context) error {
	if err := a.engine.NewChat(ctx); err != nil {
		return a.report("Gagal membuat percakapan", err)
	}
	a.showCurrent()
	return nil
}

// sessionAt maps a 1-based list number to a session id.
func (a *App) sessionAt(arg string) (string, error) {
	n, err := strconv.Atoi(arg)
	sessions := a.engine.Snapshot().Sessions
	if err != nil || n < 1 || n > len(sessions) {
		printlnFn(render.ErrorStyle.Render(fmt.Sprintf("%s: %q", errBadIndex, arg)))
		return "", errBadIndex
	}
	return sessions[n-1].ID, nil
}

func (a *App) Switch(ctx context.Context, arg string) error {
	id, err := a.sessionAt(arg)
	if err != nil {
		return err
	}
	if err := a.engine.SelectSession(ctx, id); err != nil && api.IsUnauthorized(err) {
		return a.report("", err)
	}
	// Other load failures keep the previous transcript; they are only logged.
	a.showCurrent()
	return nil
}

func (a *App) Rename(ctx context.Context, arg, title string) error {
	id, err := a.sessionAt(arg)
	if err != nil {
		return err
	}
	if err := a.engine.BeginRename(id); err != nil {
		return err
	}
	if title == "" {
		title, err = a.readLine("Judul baru (/cancel untuk batal)")
		if err != nil || title == "/cancel" {
			a.engine.CancelRename()
			return err
		}
	}
	if err := a.engine.RenameSession(ctx, id, title); err != nil {
		return a.report("Gagal mengganti judul", err)
	}
	a.Sessions()
	return nil
}

func (a *App) Delete(ctx context.Context, arg string) error {
	id, err := a.sessionAt(arg)
	if err != nil {
		return err
	}
	before := a.engine.Snapshot().CurrentID
	if err := a.engine.DeleteSession(ctx, id); err != nil {
		return a.report("Gagal menghapus percakapan", err)
	}
	a.Sessions()
	if a.engine.Snapshot().CurrentID != before {
		a.showCurrent()
	}
	return nil
}

func (a *App) Attach(path string) error {
	u, err := api.FileUpload(path)
	if err != nil {
		printlnFn(render.ErrorStyle.Render("Tidak dapat melampirkan: " + err.Error()))
		return err
	}
	a.engine.AddPendingFile(u)
	printlnFn(render.MutedStyle.Render(fmt.Sprintf("Dilampirkan: %s (%s)", u.Name, render.FormatSize(u.Size))))
	return nil
}

func (a *App) Detach(arg string) error {
	n, err := strconv.Atoi(arg)
	if err != nil {
		printlnFn(render.ErrorStyle.Render(fmt.Sprintf("%s: %q", errBadIndex, arg)))
		return errBadIndex
	}
	if err := a.engine.RemovePendingFile(n - 1); err != nil {
		printlnFn(render.ErrorStyle.Render(err.Error()))
		return err
	}
	a.Files()
	return nil
}

func (a *App) Files() {
	printlnFn(render.PendingFiles(a.engine.PendingFiles()))
}

func (a *App) Logout(ctx context.Context) error {
	return a.engine.Logout(ctx)
}

// report prints a failure. Unauthorized failures have already sent the user
// to the landing page.
func (a *App) report(what string, err error) error {
	if api.IsUnauthorized(err) {
		printlnFn(render.ErrorStyle.Render("Sesi berakhir, silakan masuk kembali."))
		return err
	}
	printlnFn(render.ErrorStyle.Render(what + "."))
	return err
}
