package botnotify

import (
	"fmt"
	"net/http"
	"strings"

	"ats-backend/config"

	"github.com/sirupsen/logrus"
)

// SendAuditFailure сообщает о потерянной записи аудита, сама смена статуса при этом уже сохранена
func SendAuditFailure(applicationID, actorID, errs string, logger *logrus.Entry) {
	if config.Conf == nil || config.Conf.NotifyBot.AddrAudit == "" {
		return
	}
	payload := fmt.Sprintf(
		`{"event":"audit_emission_failed","application_id":%q,"actor_id":%q,"error":%q}`,
		applicationID, actorID, errs)
	resp, err := http.Post(config.Conf.NotifyBot.AddrAudit, "application/json", strings.NewReader(payload))
	if err != nil {
		logger.WithError(err).Errorf("error sending audit notification to telegram, resp %+v", resp)
		return
	}
	resp.Body.Close()
}
