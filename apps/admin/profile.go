package main

import (
	"context"
	"fmt"

	"github.com/trezcool/watas/core/admin"
	"github.com/trezcool/watas/core/group"
)

func (cli *commandLine) setPro(id string, isPro bool) error {
	p, err := cli.profileSvc.SetPro(context.Background(), id, isPro)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "%s (%s): is_pro=%t\n", p.FullName, p.ID, p.IsPro)
	return nil
}

func (cli *commandLine) setModel(model string) error {
	if err := cli.settingsSvc.SetChatModel(context.Background(), model); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "chat model: %s\n", model)
	return nil
}

func (cli *commandLine) seedGroups() error {
	ctx := context.Background()
	if err := cli.groupSvc.Seed(ctx); err != nil {
		return err
	}
	groups, err := cli.groupSvc.Query(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "enabled groups: %v\n", group.EnabledIDs(groups))
	return nil
}

func (cli *commandLine) hashPassword(pwd string) error {
	hash, err := admin.HashPassword(pwd)
	if err != nil {
		return err
	}
	fmt.Fprintln(cli.out, hash)
	return nil
}
