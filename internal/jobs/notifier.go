package jobs

import (
	"context"
	"log/slog"

	"github.com/ali-aktas/hocalingo-api/internal/domain"
)

// Notifier is the boundary to whatever delivers review reminders. Push and
// display mechanics live entirely on the collaborator's side; the engine
// only decides which item is worth nudging about.
type Notifier interface {
	// NotifyReviewDue tells the collaborator that the profile has an item
	// worth reviewing.
	NotifyReviewDue(ctx context.Context, profileID string, item *domain.Item) error
}

// LogNotifier is the default Notifier: it logs the pick and delivers
// nothing. Deployments plug a real delivery channel in its place.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger.With(slog.String("component", "log_notifier"))}
}

// NotifyReviewDue implements Notifier by logging the picked item.
func (n *LogNotifier) NotifyReviewDue(
	ctx context.Context,
	profileID string,
	item *domain.Item,
) error {
	n.logger.Info("review reminder",
		slog.String("profile_id", profileID),
		slog.Int64("item_id", item.ID),
		slog.String("text", item.Text))
	return nil
}
