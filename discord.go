package main

import (
	"context"
	"time"

	client "github.com/hugolgst/rich-go/client"
)

func initDiscordRPC(ctx context.Context, character string) {
	if !gs.DiscordRPC {
		return
	}
	if err := client.Login("1406171210240360509"); err != nil {
		logError("discord rpc login: %v", err)
		return
	}
	now := time.Now()
	state := "Surviving"
	if character != "" {
		state = "Playing " + character
	}
	if err := client.SetActivity(client.Activity{
		State:   state,
		Details: "Emberwild",
		Timestamps: &client.Timestamps{
			Start: &now,
		},
	}); err != nil {
		logError("discord rpc activity: %v", err)
	}
	go func() {
		<-ctx.Done()
		client.Logout()
	}()
}
