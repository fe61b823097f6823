package cli

type RootArgs struct {
	logLevel   *string
	logFormat  *string
	configFile *string
}

func NewRootArgs() *RootArgs {
	return &RootArgs{
		logLevel:   new(string),
		logFormat:  new(string),
		configFile: new(string),
	}
}

func (a *RootArgs) GetLogLevel() string {
	return *a.logLevel
}

func (a *RootArgs) GetLogFormat() string {
	return *a.logFormat
}

func (a *RootArgs) GetConfigFile() string {
	return *a.configFile
}
