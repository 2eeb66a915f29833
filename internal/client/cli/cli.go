// Package cli реализует командный интерфейс клиента органайзера.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/iudanet/orgsync/internal/client/auth"
	"github.com/iudanet/orgsync/internal/client/health"
	"github.com/iudanet/orgsync/internal/client/queue"
	"github.com/iudanet/orgsync/internal/client/scheduler"
	"github.com/iudanet/orgsync/internal/client/store"
	syncclient "github.com/iudanet/orgsync/internal/client/sync"
)

// Cli связывает команды пользователя с сервисами клиента
type Cli struct {
	store       *store.Service
	authService *auth.Service
	syncService *syncclient.Service
	scheduler   *scheduler.Scheduler
	queue       *queue.Service
	health      *health.Recorder
	degraded    func() bool
	out         io.Writer
	in          io.Reader
}

// New создает CLI поверх сервисов клиента.
// degraded сообщает, работает ли хранилище в деградированном режиме.
func New(
	st *store.Service,
	authService *auth.Service,
	syncService *syncclient.Service,
	sched *scheduler.Scheduler,
	q *queue.Service,
	healthRec *health.Recorder,
	degraded func() bool,
) *Cli {
	return &Cli{
		store:       st,
		authService: authService,
		syncService: syncService,
		scheduler:   sched,
		queue:       q,
		health:      healthRec,
		degraded:    degraded,
		out:         os.Stdout,
		in:          os.Stdin,
	}
}

// SetOutput перенаправляет вывод (тесты)
func (c *Cli) SetOutput(w io.Writer) {
	c.out = w
}

// SetInput перенаправляет ввод (тесты)
func (c *Cli) SetInput(r io.Reader) {
	c.in = r
}

// Run выполняет команду. Возвращает ошибку для вывода и ненулевого
// exit code в main.
func (c *Cli) Run(ctx context.Context, command string, args []string) error {
	switch command {
	case "register":
		return c.runRegister(ctx)
	case "login":
		return c.runLogin(ctx)
	case "logout":
		return c.runLogout(ctx)
	case "status":
		return c.runStatus(ctx)
	case "add":
		return c.runAdd(ctx, args)
	case "update":
		return c.runUpdate(ctx, args)
	case "list":
		return c.runList(ctx, args)
	case "delete":
		return c.runDelete(ctx, args)
	case "track":
		return c.runTrack(ctx, args)
	case "sync", "push":
		return c.runSync(ctx)
	case "pull":
		return c.runPull(ctx)
	case "watch":
		return c.runWatch(ctx)
	case "conflicts":
		return c.runConflicts(ctx, args)
	case "queue":
		return c.runQueue(ctx, args)
	case "health":
		return c.runHealth(ctx)
	default:
		PrintUsage()
		return fmt.Errorf("unknown command: %s", command)
	}
}

func PrintUsage() {
	fmt.Println("OrgSync Client")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  orgsync [OPTIONS] COMMAND")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version      Show version information")
	fmt.Println("  --server URL   Server URL (default: http://localhost:8080)")
	fmt.Println("  --db PATH      Path to local database (default: orgsync-client.db)")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  register                          Register new user")
	fmt.Println("  login                             Login to server")
	fmt.Println("  logout                            Logout (local session only)")
	fmt.Println("  status                            Show session and sync status")
	fmt.Println("  add <collection> k=v [k=v ...]    Add a record")
	fmt.Println("  update <collection> <id> k=v ...  Update record fields")
	fmt.Println("  list <collection>                 List records")
	fmt.Println("  delete <collection> <id>          Delete a record")
	fmt.Println("  track <YYYY-MM-DD> <field> <val>  Set a daily tracking field")
	fmt.Println("  sync                              Push local changes now")
	fmt.Println("  pull                              Pull remote changes now")
	fmt.Println("  watch                             Run background sync until interrupted")
	fmt.Println("  conflicts [clear]                 Show or clear conflict notifications")
	fmt.Println("  queue [clear]                     Show or clear the offline operation queue")
	fmt.Println("  health                            Show sync health log")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  orgsync register")
	fmt.Println("  orgsync add tasks title='Buy milk' area=home")
	fmt.Println("  orgsync track 2024-03-01 weight 71.5")
	fmt.Println("  orgsync sync")
}

// readInput читает строку из stdin
func (c *Cli) readInput(prompt string) (string, error) {
	fmt.Fprint(c.out, prompt)
	reader := bufio.NewReader(c.in)
	input, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

// readPassword читает пароль без отображения на экране.
// Если stdin не терминал (тесты, пайпы), читает обычной строкой.
func (c *Cli) readPassword(prompt string) (string, error) {
	if f, ok := c.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(c.out, prompt)
		passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(c.out)
		if err != nil {
			return "", err
		}
		return string(passwordBytes), nil
	}
	return c.readInput(prompt)
}

// parseFields разбирает аргументы вида key=value в поля записи
func parseFields(args []string) (map[string]any, error) {
	fields := make(map[string]any, len(args))
	for _, arg := range args {
		key, value, found := strings.Cut(arg, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid field %q, expected key=value", arg)
		}
		fields[key] = value
	}
	return fields, nil
}
