package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"path"
	"ticketonline/src/boot"
	"ticketonline/src/common"
	"ticketonline/src/config"
	"ticketonline/src/lib"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	_ "github.com/joho/godotenv/autoload"
)

const (
	apiPrefix string = "/api/v1"
)

var eventDateTimeValidatorFunc validator.Func = func(fl validator.FieldLevel) bool {
	date, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	datetime, err := time.Parse(config.TIME_PARSE_FORMAT, date)
	if err != nil {
		return false
	}
	today := time.Now()
	if today.After(datetime) {
		return false
	}
	return true
}

func setupRouter() *gin.Engine {
	router := gin.Default()
	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, "ok")
	})
	return router
}

func apiv1Group(g *gin.Engine) *gin.RouterGroup {
	return g.Group(apiPrefix)
}

// newChargeDispatcher picks the redis-backed queue when a broker is
// configured and falls back to in-process dispatch otherwise.
func newChargeDispatcher(processor *common.PaymentProcessor) lib.ChargeDispatcher {
	if os.Getenv("REDIS_HOST") == "" {
		log.Println("No redis broker configured. Charges will be processed in-process")
		return &common.LocalChargeDispatcher{Processor: processor}
	}
	rdb := lib.GetRedisClient()
	queue := config.ChargeQueueName()
	go common.ChargeRequestsConsumer(context.Background(), rdb, queue, processor)
	return lib.NewRedisChargeDispatcher(rdb, queue)
}

func main() {
	apiEnv := os.Getenv("API_ENV")
	if apiEnv == "local" {
		cwd, _ := os.Getwd()
		if err := godotenv.Load(path.Join(cwd, ".env")); err != nil {
			panic(err)
		}
	}

	boot.InitDb()
	boot.InitScheduler()
	defer boot.StopScheduler()

	processor := common.NewPaymentProcessor(lib.NewSimulatedGateway())
	dispatcher := newChargeDispatcher(processor)

	router := setupRouter()
	if apiEnv == "local" {
		router.Use(cors.Default())
	} else {
		cc := cors.DefaultConfig()
		cc.AllowMethods = append(cc.AllowMethods, "GET", "POST", "PUT", "DELETE", "HEAD")
		cc.AllowHeaders = append(cc.AllowHeaders, "Origin", "Content-Type")
		cc.AllowAllOrigins = true
		router.Use(cors.New(cc))
	}

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("bookabledate", eventDateTimeValidatorFunc)
	}

	apiv1 := apiv1Group(router)
	eventHandlers(apiv1)
	reservationHandlers(apiv1)
	transactionHandlers(apiv1, dispatcher)

	if err := router.Run(); err != nil {
		log.Fatalf("Error starting server: %s\n", err.Error())
	}
}
