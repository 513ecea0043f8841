// Copyright 2025 Tutor ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package network

import (
	"github.com/tutor-ml/tutor/internal/network"
)

// Network is the view of a symbolic model every trainer consumes.
type Network = network.Network

// Supervised is a Network with an explicit target placeholder, as the HF
// trainer requires.
type Supervised = network.Supervised

// Recurrent is a reservoir-style Network exposing the internals the FORCE
// trainer updates.
type Recurrent = network.Recurrent

// Options is the open-ended configuration bag shared by trainers and loss
// builders.
type Options = network.Options
