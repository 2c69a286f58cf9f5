package widgets

import perrors "github.com/odvcencio/panel/pkg/errors"

var errNoColumns = perrors.New(perrors.ErrCodeWidgetInvalid, "table needs at least one column")
