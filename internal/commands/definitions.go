package commands

import "github.com/bwmarrin/discordgo"

func GetCommands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:         "start",
			Description:  "Start a new group order session in this channel",
			DMPermission: boolPtr(false),
		},
		{
			Name:         "end",
			Description:  "End the session and clear all orders",
			DMPermission: boolPtr(false),
		},
		{
			Name:         "order",
			Description:  "Add orders, e.g. '2 coke + fries $4'",
			DMPermission: boolPtr(false),
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "items",
					Description: "Orders separated by +, each with optional quantity and $price",
					Required:    true,
				},
			},
		},
		{
			Name:         "remove",
			Description:  "Remove orders, e.g. '2 coke'",
			DMPermission: boolPtr(false),
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "items",
					Description: "Orders to remove, separated by +",
					Required:    true,
				},
			},
		},
		{
			Name:         "set",
			Description:  "Set prices, e.g. 'coke = 1.5, fries = 4'",
			DMPermission: boolPtr(false),
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "prices",
					Description: "name = price pairs separated by commas",
					Required:    true,
				},
			},
		},
		{
			Name:         "service",
			Description:  "Set the shared service charge",
			DMPermission: boolPtr(false),
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "amount",
					Description: "Service charge for the whole session",
					Required:    true,
				},
			},
		},
		{
			Name:         "tax",
			Description:  "Set the shared tax charge",
			DMPermission: boolPtr(false),
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "amount",
					Description: "Tax for the whole session",
					Required:    true,
				},
			},
		},
		{
			Name:        "me",
			Description: "Show your orders",
		},
		{
			Name:         "all",
			Description:  "Show everyone's orders",
			DMPermission: boolPtr(false),
		},
		{
			Name:        "bill",
			Description: "Compute the split bill",
		},
		{
			Name:        "tabhelp",
			Description: "How to use the order bot",
		},
	}
}

func boolPtr(b bool) *bool {
	return &b
}
