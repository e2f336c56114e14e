// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Burge Contributors

package scene

import (
	"github.com/burge/burge/internal/element"
	"github.com/burge/burge/internal/event"
)

// BroadcastAlias is the alias of the module exposing the scene's channel.
const BroadcastAlias = "scene broadcast"

// BroadcastKey fetches a sender on the scene's topology channel.
var BroadcastKey = element.NewKey[*event.Sender[Event]](BroadcastAlias)

type broadcast struct {
	element.Base
	sender *event.Sender[Event]
}

func (b *broadcast) Alias() string   { return BroadcastAlias }
func (b *broadcast) Capability() any { return b.sender }
