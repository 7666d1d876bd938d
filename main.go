package main

import (
	"net/http"

	"github.com/famewire/famestock-server/datastreams"
	"github.com/famewire/famestock-server/exchange"
	"github.com/famewire/famestock-server/httpapi"
	"github.com/famewire/famestock-server/store"
	"github.com/famewire/famestock-server/utils"
)

func main() {
	conf, err := utils.GetConfiguration()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	utils.InitLogger(conf)
	l := utils.Logger.WithFields(map[string]interface{}{
		"module": "main",
		"method": "main",
	})

	l.Infof("Starting famestock server in %s mode", conf.Stage)

	st, err := store.Open(conf)
	if err != nil {
		l.Fatalf("Error opening database. Exiting. Error: %+v", err)
	}
	defer st.Close()

	if err := st.AutoMigrate(); err != nil {
		l.Fatalf("Error migrating database schema. Exiting. Error: %+v", err)
	}

	tradeFeed := datastreams.NewTradesStream()
	ex := exchange.NewExchange(st, conf.OwnerAccount, tradeFeed)
	mux := httpapi.NewMux(ex, tradeFeed)

	l.Infof("Listening on %s", conf.ServerPort)
	if err := http.ListenAndServe(conf.ServerPort, mux); err != nil {
		l.Fatalf("Server stopped. Error: %+v", err)
	}
}
