package platform

// Options carries the per-notification extras a backend may support.
type Options struct {
	// AppName identifies the sending application to the notification
	// service. Backends fall back to "picbin" when empty.
	AppName string
	// IconPath points at an image file to show beside the notification,
	// on backends that support one.
	IconPath string
}

func (o Options) appName() string {
	if o.AppName == "" {
		return "picbin"
	}
	return o.AppName
}
