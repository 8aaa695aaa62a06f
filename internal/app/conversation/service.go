package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/PabloGalante/timetable-bot/internal/app/dialog"
	"github.com/PabloGalante/timetable-bot/internal/app/render"
	"github.com/PabloGalante/timetable-bot/internal/app/timetable"
	"github.com/PabloGalante/timetable-bot/internal/domain"
	"github.com/PabloGalante/timetable-bot/internal/observability"
)

// ErrNoChat is returned for messages without a chat identity.
var ErrNoChat = errors.New("inbound message has no chat id")

const (
	CommandStart = "/start"
	CommandGroup = "/group"
	CommandAdmin = "/admin"
	CommandHelp  = "/help"
)

const (
	msgFailure      = "Something went wrong. Please try again later."
	msgChooseGroup  = "Please choose your group first."
	msgNoAdmin      = "You don't have administrator rights."
	msgUnrecognized = "I don't understand this command. Please use the menu buttons or the commands /start, /group, /admin."
)

// AdminChecker tells whether a chat has admin rights.
type AdminChecker interface {
	IsAdmin(ctx context.Context, chatID domain.ChatID) (bool, error)
}

// Service routes inbound messages: the active dialog first, then commands
// and menu captions. Messages are handled one at a time.
type Service struct {
	mu sync.Mutex

	dialogs   *dialog.Engine
	timetable *timetable.Service
	groups    domain.GroupStore
	users     domain.UserStore
	admins    AdminChecker
}

func NewService(
	dialogs *dialog.Engine,
	tt *timetable.Service,
	groups domain.GroupStore,
	users domain.UserStore,
	admins AdminChecker,
) *Service {
	return &Service{
		dialogs:   dialogs,
		timetable: tt,
		groups:    groups,
		users:     users,
		admins:    admins,
	}
}

// HandleMessage processes one inbound message to completion. Failures are
// logged and answered with a generic reply; only a message without a chat
// id is rejected with an error.
func (s *Service) HandleMessage(ctx context.Context, in domain.Inbound) ([]domain.Reply, error) {
	if in.ChatID == "" {
		return nil, ErrNoChat
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ctx = observability.WithChatID(ctx, string(in.ChatID))
	log := observability.LoggerFromContext(ctx)
	log.Debug("handling message", "text", in.Text, "action", in.Action)

	replies, revoked, err := s.revokeAdminDialog(ctx, in)
	if err != nil {
		log.Error("failed to check admin dialog", "error", err)
		return []domain.Reply{{Text: msgFailure, Keyboard: render.MainMenu()}}, nil
	}
	if revoked {
		return replies, nil
	}

	replies, handled, err := s.dialogs.Route(ctx, in)
	if err != nil {
		log.Error("dialog failed", "error", err)
		return []domain.Reply{{Text: msgFailure, Keyboard: render.MainMenu()}}, nil
	}
	if handled {
		return replies, nil
	}

	replies, err = s.route(ctx, in)
	if err != nil {
		log.Error("failed to handle message", "error", err)
		return []domain.Reply{{Text: msgFailure}}, nil
	}
	return replies, nil
}

func (s *Service) route(ctx context.Context, in domain.Inbound) ([]domain.Reply, error) {
	text := strings.TrimSpace(in.Text)

	switch text {
	case CommandStart:
		return s.start(ctx, in)
	case CommandGroup, render.CaptionChangeGroup:
		return s.dialogs.Start(ctx, dialog.DialogGroupSelection, in)
	case CommandAdmin:
		return s.dialogs.Start(ctx, dialog.DialogAdminLogin, in)
	case CommandHelp, render.CaptionInfo:
		return s.info(ctx, in)

	case render.CaptionToday:
		return s.day(ctx, in, s.timetable.TodayFor, "today")
	case render.CaptionTomorrow:
		return s.day(ctx, in, s.timetable.TomorrowFor, "tomorrow")
	case render.CaptionWeek:
		return s.week(ctx, in)

	case render.CaptionManageGroups:
		return s.asAdmin(ctx, in, func() ([]domain.Reply, error) {
			return s.dialogs.Start(ctx, dialog.DialogGroupManagement, in)
		})
	case render.CaptionManageSchedule:
		return s.asAdmin(ctx, in, func() ([]domain.Reply, error) {
			return s.dialogs.Start(ctx, dialog.DialogScheduleManagement, in)
		})
	case render.CaptionManageUsers:
		return s.asAdmin(ctx, in, func() ([]domain.Reply, error) {
			return reply("User management is under development. Coming soon!", render.AdminMenu()), nil
		})
	case render.CaptionExitAdmin:
		return reply("You have left the admin panel.", render.MainMenu()), nil
	}

	return reply(msgUnrecognized, nil), nil
}

func (s *Service) start(ctx context.Context, in domain.Inbound) ([]domain.Reply, error) {
	user, group, err := s.userGroup(ctx, in.ChatID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		intro := domain.Reply{Text: "Welcome! Choose your group to get started."}
		rest, err := s.dialogs.Start(ctx, dialog.DialogGroupSelection, in)
		if err != nil {
			return nil, err
		}
		return append([]domain.Reply{intro}, rest...), nil
	}

	name := user.FirstName
	if name == "" {
		name = "there"
	}
	return reply(fmt.Sprintf("Welcome, %s! Your group: %s", name, group.Name), render.MainMenu()), nil
}

func (s *Service) info(ctx context.Context, in domain.Inbound) ([]domain.Reply, error) {
	_, group, err := s.userGroup(ctx, in.ChatID)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	b.WriteString("A bot for viewing class timetables.\n\n")
	if group != nil {
		fmt.Fprintf(&b, "Your group: %s\n", group.Name)
		if group.Faculty != "" {
			fmt.Fprintf(&b, "Faculty: %s\n", group.Faculty)
		}
	} else {
		b.WriteString("You have no group selected. Use /group to choose one.\n")
	}
	b.WriteString("\nAvailable commands:\n")
	b.WriteString(CommandStart + " - start working with the bot\n")
	b.WriteString(CommandGroup + " - choose your group\n")
	b.WriteString(CommandAdmin + " - log in to the admin panel\n")
	b.WriteString(CommandHelp + " - show this message")

	return reply(b.String(), nil), nil
}

type dayQuery func(ctx context.Context, groupID domain.GroupID) ([]*domain.ScheduleEntry, error)

func (s *Service) day(ctx context.Context, in domain.Inbound, query dayQuery, when string) ([]domain.Reply, error) {
	_, group, err := s.userGroup(ctx, in.ChatID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return s.chooseGroupFirst(ctx, in)
	}

	entries, err := query(ctx, group.ID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return reply(fmt.Sprintf("No classes %s for group %s 🎉", when, group.Name), nil), nil
	}

	day := entries[0].Day
	return []domain.Reply{{Text: render.Day(day, entries), Markdown: true}}, nil
}

func (s *Service) week(ctx context.Context, in domain.Inbound) ([]domain.Reply, error) {
	_, group, err := s.userGroup(ctx, in.ChatID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return s.chooseGroupFirst(ctx, in)
	}

	week, err := s.timetable.WeekFor(ctx, group.ID)
	if err != nil {
		return nil, err
	}
	return []domain.Reply{{Text: render.Week(week, s.timetable.CurrentParity()), Markdown: true}}, nil
}

func (s *Service) chooseGroupFirst(ctx context.Context, in domain.Inbound) ([]domain.Reply, error) {
	rest, err := s.dialogs.Start(ctx, dialog.DialogGroupSelection, in)
	if err != nil {
		return nil, err
	}
	return append([]domain.Reply{{Text: msgChooseGroup}}, rest...), nil
}

func (s *Service) asAdmin(ctx context.Context, in domain.Inbound, next func() ([]domain.Reply, error)) ([]domain.Reply, error) {
	ok, err := s.admins.IsAdmin(ctx, in.ChatID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return reply(msgNoAdmin, nil), nil
	}
	return next()
}

// revokeAdminDialog drops an active management dialog when the sender can
// no longer act as admin on this request.
func (s *Service) revokeAdminDialog(ctx context.Context, in domain.Inbound) ([]domain.Reply, bool, error) {
	active, err := s.dialogs.Active(ctx, in.ChatID)
	if err != nil {
		return nil, false, err
	}
	if active != dialog.DialogGroupManagement && active != dialog.DialogScheduleManagement {
		return nil, false, nil
	}

	ok, err := s.admins.IsAdmin(ctx, in.ChatID)
	if err != nil || ok {
		return nil, false, err
	}

	observability.LoggerFromContext(ctx).Warn("dropping admin dialog without admin rights", "dialog", active)
	if err := s.dialogs.Cancel(ctx, in.ChatID); err != nil {
		return nil, false, err
	}
	return reply(msgNoAdmin, render.MainMenu()), true, nil
}

// userGroup loads the user and their group. Both are nil for unknown users
// or users without a group.
func (s *Service) userGroup(ctx context.Context, chatID domain.ChatID) (*domain.User, *domain.Group, error) {
	user, err := s.users.GetUserByChatID(ctx, chatID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("loading user: %w", err)
	}
	if user.GroupID == nil {
		return user, nil, nil
	}

	group, err := s.groups.GetGroup(ctx, *user.GroupID)
	if errors.Is(err, domain.ErrNotFound) {
		return user, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("loading group: %w", err)
	}
	return user, group, nil
}

func reply(text string, kb *domain.Keyboard) []domain.Reply {
	return []domain.Reply{{Text: text, Keyboard: kb}}
}
