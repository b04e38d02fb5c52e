// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package bufgmap_test

import (
	"testing"

	"go.uber.org/goleak"
)

// Pass.Run must not leave workers behind, even when canceled.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
