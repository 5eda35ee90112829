package ports

// KeyValueConfig supplies raw settings by key. *viper.Viper satisfies it.
type KeyValueConfig interface {
	GetString(key string) string
	IsSet(key string) bool
}
