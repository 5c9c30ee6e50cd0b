package config

import (
	"github.com/sirupsen/logrus"
	"gopkg.in/ini.v1"
)

// Config represents config info
var Config ConfList

// ConfList has contents of config.ini
type ConfList struct {
	DBdriver      string
	DBname        string
	Port          int
	IP            string
	DataDir       string
	DefaultPeriod int
}

// InitConfig initializes config settings.
// Missing keys fall back to usable defaults so the tool also runs without a config.ini.
func InitConfig() {
	conf, err := ini.Load("config.ini")
	if err != nil {
		logrus.Warnf("init file open error: %v", err)
		conf = ini.Empty()
	}

	Config = ConfList{
		DBdriver:      conf.Section("db").Key("driver").MustString("sqlite3"),
		DBname:        conf.Section("db").Key("name").MustString("backtest.sqlite3"),
		Port:          conf.Section("web").Key("port").MustInt(8080),
		IP:            conf.Section("web").Key("ip").String(),
		DataDir:       conf.Section("data").Key("dir").MustString("./data"),
		DefaultPeriod: conf.Section("backtest").Key("period_days").MustInt(365 * 5),
	}
}
