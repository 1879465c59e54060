package main

import (
	"fmt"
	"os"

	"github.com/trezcool/watas/core"
	"github.com/trezcool/watas/core/group"
	"github.com/trezcool/watas/core/profile"
	"github.com/trezcool/watas/core/settings"
	logsvc "github.com/trezcool/watas/services/logger"
	"github.com/trezcool/watas/storage/database"
	sqlxrepos "github.com/trezcool/watas/storage/database/sqlx"
)

func main() {
	conf, err := core.NewConfig()
	errAndDie(err)
	logger, err := logsvc.NewRollbarLogger(conf)
	errAndDie(err)
	defer logger.Sync()

	cli := commandLine{out: os.Stdout}

	if needsDB(os.Args) {
		// set up DB
		db, err := database.Open(conf)
		errAndDie(err)
		defer db.Close()
		errAndDie(db.Ping())

		cli.db = db
		cli.profileSvc = profile.NewService(sqlxrepos.NewProfileRepository(db), nil, logger)
		cli.settingsSvc = settings.NewService(conf, sqlxrepos.NewSettingRepository(db), logger)
		cli.groupSvc = group.NewService(sqlxrepos.NewGroupRepository(db))
	}

	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Error("admin command failed", err, "args", os.Args[1:])
			fmt.Fprintf(os.Stderr, "\nerror: %s\n", err)
		}
		logger.Sync()
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}
