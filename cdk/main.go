package main

import (
	"os"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsapigateway"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslambda"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
)

type MatchdayStackProps struct {
	awscdk.StackProps
}

func envOr(key, fallback string) *string {
	if v := os.Getenv(key); v != "" {
		return jsii.String(v)
	}
	return jsii.String(fallback)
}

func NewMatchdayStack(scope constructs.Construct, id string, props *MatchdayStackProps) awscdk.Stack {
	var stackProps awscdk.StackProps
	if props != nil {
		stackProps = props.StackProps
	}

	stack := awscdk.NewStack(scope, &id, &stackProps)

	// The fetch timeout is 30s by default; the function must outlive it.
	lambdaFn := awslambda.NewFunction(stack, jsii.String("MatchdayApi"), &awslambda.FunctionProps{
		Runtime:    awslambda.Runtime_PROVIDED_AL2023(),
		Handler:    jsii.String("bootstrap"),
		Code:       awslambda.Code_FromAsset(jsii.String("../"), nil),
		Timeout:    awscdk.Duration_Seconds(jsii.Number(35)),
		MemorySize: jsii.Number(256),
		Environment: &map[string]*string{
			"APP":                     jsii.String("prod"),
			"UPSTREAM_URL":            envOr("UPSTREAM_URL", "http://127.0.0.1:5000"),
			"FETCH_TIMEOUT":           envOr("FETCH_TIMEOUT", "30s"),
			"LEAGUES":                 envOr("LEAGUES", "English Premier League,Italian Serie A,Portugal Primeira League"),
			"POSTGRES_DSN":            jsii.String(os.Getenv("POSTGRES_DSN")),
			"POSTGRES_MIGRATIONS_DIR": jsii.String("migrations/postgres"),
			"LOG_LEVEL":               envOr("LOG_LEVEL", "info"),
		},
	})

	api := awsapigateway.NewLambdaRestApi(stack, jsii.String("MatchdayApiGateway"), &awsapigateway.LambdaRestApiProps{
		Handler: lambdaFn,
	})

	awscdk.NewCfnOutput(stack, jsii.String("ApiURL"), &awscdk.CfnOutputProps{Value: api.Url()})

	return stack
}

func main() {
	app := awscdk.NewApp(nil)
	NewMatchdayStack(app, "MatchdayStack", &MatchdayStackProps{})
	app.Synth(nil)
}
