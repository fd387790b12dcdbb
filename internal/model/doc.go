// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures shared by the chat client.
//
// # Key Types
//
//   - Message: One entry of the chat thread (role, text, format)
//   - Role: Who produced a message (user or bot)
//   - Format: How a bot reply is structured (plain, list, math-steps)
//   - User: Profile of the authenticated account
//
// # Usage
//
//	msg := model.NewUserMessage("What is 2+2?")
//	reply := model.NewBotMessage("Step 1: add", model.ParseFormat("math"))
package model
