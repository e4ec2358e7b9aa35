// conf/defaults.go default values for settings
package conf

import (
	"github.com/spf13/viper"
)

// Sets default values for the configuration.
func setDefaultConfig() {
	viper.SetDefault("debug", false)

	viper.SetDefault("main.name", "BarkDet-Go")
	viper.SetDefault("main.log.enabled", true)
	viper.SetDefault("main.log.path", "barkdet.log")

	viper.SetDefault("audio.source", "")
	viper.SetDefault("audio.export.enabled", false)
	viper.SetDefault("audio.export.path", "clips/")

	viper.SetDefault("classifier.modelpath", "")
	viper.SetDefault("classifier.labelpath", "")
	viper.SetDefault("classifier.sensitivity", 1.0)
	viper.SetDefault("classifier.threads", 0)

	viper.SetDefault("detection.targetlabel", "dog_bark")
	viper.SetDefault("detection.threshold", 0.9)

	viper.SetDefault("notification.permission", PermissionDefault)
	viper.SetDefault("notification.autogrant", true)
	viper.SetDefault("notification.shoutrrr.enabled", false)
	viper.SetDefault("notification.shoutrrr.urls", []string{})
	viper.SetDefault("notification.webhook.enabled", false)
	viper.SetDefault("notification.webhook.url", "")
	viper.SetDefault("notification.webhook.timeout", 30)

	viper.SetDefault("relay.enabled", false)
	viper.SetDefault("relay.url", "http://localhost:3000")
	viper.SetDefault("relay.interval", 10000)

	viper.SetDefault("server.port", 3000)
	viper.SetDefault("server.database", "subscriptions.db")
	viper.SetDefault("server.vapidkeyfile", "vapid.json")
	viper.SetDefault("server.contact", "mailto:example@example.com")
}
