// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package trust

import (
	"github.com/inexmode/arena/pkg/constants"
	"github.com/inexmode/arena/pkg/envelope"
	"github.com/inexmode/arena/pkg/models"
)

// ReportPlayer files a report from reporter against target. A reporter can
// report the same target at most once per rolling 24 hours; duplicates are
// acknowledged without a trust effect. Self-reports are rejected.
func (e *Engine) ReportPlayer(scope *envelope.Scope, reporter, target models.PlayerID) (models.ReportOutcome, *TrustChange, error) {
	if reporter == target {
		return "", nil, models.ErrSelfReport
	}

	now := Now()
	key := reportKey(reporter, target)

	e.mu.Lock()
	if last, ok := e.reports[key]; ok && now.Unix()-last < int64(constants.ReportWindow.Seconds()) {
		e.mu.Unlock()
		return models.ReportDuplicate, nil, nil
	}
	e.reports[key] = now.Unix()

	profile := e.trustProfile(target)
	profile.Reports++
	change := recompute(profile, "reported by another player")
	e.mu.Unlock()

	scope.Log.WithField("player", target).Infof("report filed by %s", reporter)
	e.saveReports(scope)
	e.saveTrust(scope)
	return models.ReportAccepted, change, nil
}

func reportKey(reporter, target models.PlayerID) string {
	return string(reporter) + ":" + string(target)
}
