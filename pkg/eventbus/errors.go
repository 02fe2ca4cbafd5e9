package eventbus

import "errors"

var ErrNoSubscriber = errors.New("event bus has no subscriber")
