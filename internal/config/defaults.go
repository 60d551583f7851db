package config

import "time"

// Default values for optional configuration parameters.
const (
	DefaultLogLevel = "info"
	DefaultLogJSON  = true

	DefaultDBPath = "karmabot.sqlite3"

	DefaultVoteCooldown            = 12 * time.Hour
	DefaultActivityPoints          = 1
	DefaultActivityCooldown        = 10 * time.Minute
	DefaultGeniusEfficiencyCutoff  = 25
	DefaultSupremeEfficiencyCutoff = 30
	DefaultTopLimit                = 10
)

// Default schedules for background tasks (cron, with seconds field allowed).
const (
	DefaultTitleSyncSchedule      = "0 0 */6 * * *"
	DefaultSQLMaintenanceSchedule = "0 30 4 * * *"
)

// DefaultMessages are the user-facing reply templates.
var DefaultMessages = MessagesConfig{
	Welcome:        "Привет! Я считаю рейтинг в чате. Ответь на сообщение командой /plus, чтобы поставить +1.",
	Help:           "Команды:\n/profile — твой профиль и лычка\n/top — топ рейтинга\n/plus — +1 человеку (ответом на его сообщение)",
	NotAuthorized:  "Эта команда только для администратора.",
	GeneralError:   "Что-то пошло не так. Попробуй позже.",
	PlusUsage:      "Ответь на сообщение человека командой /plus.",
	SelfVote:       "Нельзя поставить /plus самому себе.",
	VoteCooldown:   "Слишком часто. Попробуй через %s.",
	VoteAccepted:   "+1 %s → %d (%s)",
	BadgeUp:        "%s получает новую лычку: %s",
	TopHeader:      "Топ рейтинга:",
	TopEmpty:       "Пока пусто. Начни пользоваться ботом или поставь кому-нибудь /plus.",
	TitleSyncStart: "Синхронизирую лычки...",
	TitleSyncDone:  "Готово: обновлено %d, пропущено %d, ошибок %d.",
}
