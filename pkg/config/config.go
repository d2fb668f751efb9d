// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package config

type Config struct {
	ListenAddr           string   `env:"LISTEN_ADDR"            envDefault:":8080"            envDocs:"address the health/metrics/state HTTP surface listens on"`
	DatabasePath         string   `env:"DATABASE_PATH"          envDefault:"./data/arena.db"  envDocs:"path of the sqlite file backing the persistence namespaces"`
	LogLevel             string   `env:"LOG_LEVEL"              envDefault:"info"             envDocs:"logrus level (debug, info, warn, error)"`
	ZipkinEndpoint       string   `env:"ZIPKIN_ENDPOINT"        envDefault:""                 envDocs:"zipkin collector endpoint; empty disables span export"`
	MatchTickSecond      int      `env:"MATCH_TICK_SECOND"      envDefault:"5"                envDocs:"interval between matchmaking scans of the waiting queues"`
	ReadyTimeoutSecond   int      `env:"READY_TIMEOUT_SECOND"   envDefault:"600"              envDocs:"seconds a found match may wait for all ready clicks (0 means use default from code)"`
	ConfirmTimeoutSecond int      `env:"CONFIRM_TIMEOUT_SECOND" envDefault:"600"              envDocs:"seconds a reported result may wait for the opposing confirmation (0 means use default from code)"`
	QueueReminderSecond  int      `env:"QUEUE_REMINDER_SECOND"  envDefault:"60"               envDocs:"interval of the still-searching reminder while a player waits in queue"`
	SyntheticPlayerIDs   []string `env:"SYNTHETIC_PLAYER_IDS"   envSeparator:","              envDocs:"player IDs treated as system participants: auto-ready and auto-confirm"`
	RoomNames            []string `env:"ROOM_NAMES"             envSeparator:","              envDocs:"names of the lobby rooms handed out to running matches"`
}
